package classify

import (
	"fmt"
	"sort"

	"github.com/vk/halglue/internal/config"
)

// Result is the outcome of classifying one platform's interface records.
type Result struct {
	// Records is a fresh, annotated record set; the inputs are not mutated.
	Records []config.InterfaceRecord
	// Mockable is the derived native-mockable set: alphabetically sorted
	// names of every interface a host-side mock exists for. This is the
	// user-facing artifact and the primary determinism property.
	Mockable []string
	// Diagnostics holds one warning per interface that fell through to
	// Custom.
	Diagnostics []config.Diagnostic
}

// Classify annotates every record with its category and mockability. Names
// absent from the registry classify as Custom and non-mockable.
func Classify(records []config.InterfaceRecord, reg *Registry) Result {
	result := Result{Records: make([]config.InterfaceRecord, 0, len(records))}

	for _, rec := range records {
		annotated := rec
		if cat, ok := reg.Lookup(rec.Name); ok {
			annotated.Category = cat
			annotated.Mockable = true
		} else {
			annotated.Category = config.CategoryCustom
			annotated.Mockable = false
			result.Diagnostics = append(result.Diagnostics, config.Diagnostic{
				Severity:         config.SeverityWarning,
				Message:          fmt.Sprintf("interface '%s' may not be available for native testing", rec.Name),
				RelatedInterface: rec.Name,
			})
		}
		result.Records = append(result.Records, annotated)
	}

	seen := make(map[string]bool)
	for _, rec := range result.Records {
		if rec.Mockable && !seen[rec.Name] {
			seen[rec.Name] = true
			result.Mockable = append(result.Mockable, rec.Name)
		}
	}
	sort.Strings(result.Mockable)

	return result
}
