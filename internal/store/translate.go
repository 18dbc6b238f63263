package store

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/schema"
)

// translateFile converts the HCL-specific schema into the agnostic model,
// validating every enum field. Any violation fails the whole load.
func translateFile(raw *schema.File) (*config.Model, error) {
	m := config.NewModel()
	for _, sp := range raw.Platforms {
		p, err := translatePlatform(sp)
		if err != nil {
			return nil, err
		}
		if _, ok := m.Get(p.Name); ok {
			return nil, fmt.Errorf("platform %q declared twice", p.Name)
		}
		m.Put(p)
	}
	return m, nil
}

func translatePlatform(sp *schema.Platform) (*config.Platform, error) {
	status, err := config.ParseStatus(sp.Status)
	if err != nil {
		return nil, fmt.Errorf("platform %q: %w", sp.Name, err)
	}
	if sp.Source == nil {
		return nil, fmt.Errorf("platform %q: missing source block", sp.Name)
	}

	p := &config.Platform{
		Name:           sp.Name,
		Target:         sp.Target,
		PackageVersion: sp.PackageVersion,
		Source: config.SourceRef{
			Repository: sp.Source.Repository,
			Ref:        sp.Source.Ref,
		},
		Status: status,
	}

	for _, si := range sp.Interfaces {
		cat, err := config.ParseCategory(si.Category)
		if err != nil {
			return nil, fmt.Errorf("platform %q, interface %q: %w", sp.Name, si.Name, err)
		}
		p.Interfaces = append(p.Interfaces, config.InterfaceRecord{
			Name:       si.Name,
			ModulePath: si.ModulePath,
			Category:   cat,
			Mockable:   si.Mockable,
			DeclaredAt: config.SourceLocation{File: si.File, Line: si.Line},
		})
	}

	for _, sd := range sp.Diagnostics {
		switch config.Severity(sd.Severity) {
		case config.SeverityWarning, config.SeverityError:
		default:
			return nil, fmt.Errorf("platform %q: unknown diagnostic severity %q", sp.Name, sd.Severity)
		}
		p.Diagnostics = append(p.Diagnostics, config.Diagnostic{
			Severity:         config.Severity(sd.Severity),
			Message:          sd.Message,
			RelatedInterface: sd.Interface,
		})
	}

	return p, nil
}

// encodeFile renders the model back to HCL source. Platform blocks follow the
// model's insertion order so repeated writes of the same model are
// byte-identical.
func encodeFile(m *config.Model) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for i, p := range m.Platforms() {
		if i > 0 {
			root.AppendNewline()
		}
		body := root.AppendNewBlock("platform", []string{p.Name}).Body()

		if p.Target != "" {
			body.SetAttributeValue("target", cty.StringVal(p.Target))
		}
		if p.PackageVersion != "" {
			body.SetAttributeValue("package_version", cty.StringVal(p.PackageVersion))
		}
		body.SetAttributeValue("status", cty.StringVal(string(p.Status)))

		src := body.AppendNewBlock("source", nil).Body()
		src.SetAttributeValue("repository", cty.StringVal(p.Source.Repository))
		if p.Source.Ref != "" {
			src.SetAttributeValue("ref", cty.StringVal(p.Source.Ref))
		}

		for _, rec := range p.Interfaces {
			ib := body.AppendNewBlock("interface", []string{rec.Name}).Body()
			ib.SetAttributeValue("module_path", cty.StringVal(rec.ModulePath))
			ib.SetAttributeValue("category", cty.StringVal(string(rec.Category)))
			ib.SetAttributeValue("mockable", cty.BoolVal(rec.Mockable))
			if rec.DeclaredAt.File != "" {
				ib.SetAttributeValue("file", cty.StringVal(rec.DeclaredAt.File))
				ib.SetAttributeValue("line", cty.NumberIntVal(int64(rec.DeclaredAt.Line)))
			}
		}

		for _, d := range p.Diagnostics {
			db := body.AppendNewBlock("diagnostic", []string{string(d.Severity)}).Body()
			db.SetAttributeValue("message", cty.StringVal(d.Message))
			if d.RelatedInterface != "" {
				db.SetAttributeValue("interface", cty.StringVal(d.RelatedInterface))
			}
		}
	}

	return f.Bytes()
}
