package compiler

import (
	"path/filepath"
	"regexp"
)

var importPattern = regexp.MustCompile(`<(\w+)\s+@src="([^"]+)"\s*/>`)

// resolveImports registers a component for every <Name @src="path"/>
// declaration in section. Paths are relative to the importing file and carry
// no extension. Imported files are read one level deep only: their own import
// sections are ignored.
func (comp *compilation) resolveImports(section, importer string) error {
	dir := filepath.Dir(importer)

	for _, m := range importPattern.FindAllStringSubmatch(section, -1) {
		name, rel := m[1], m[2]
		path := filepath.Join(dir, rel+comp.extension)

		content, err := comp.readFile(path)
		if err != nil {
			return err
		}

		c := Component{
			Name:       name,
			SourcePath: path,
			Template:   StripComments(ExtractSection(content, SectionApp)),
			Style:      StripComments(ExtractSection(content, SectionStyle)),
		}
		if comp.registry.Register(c) {
			comp.logger.Debug().Str("component", name).Str("path", path).Msg("Import replaced an earlier component with the same name")
		}
		comp.styles.WriteString(c.Style)

		comp.logger.Debug().
			Str("component", name).
			Str("path", path).
			Int("templateBytes", len(c.Template)).
			Int("styleBytes", len(c.Style)).
			Msg("Resolved import")
	}
	return nil
}
