package registry

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// AttributeFile is the content of one attrs XML file.
type AttributeFile struct {
	Groups   []*StyleGroup
	Fallback []*AttributeDefinition
}

var layoutSuffixes = []string{"_MarginLayout", "_Layout"}

// LoadAttributes reads an attrs XML document. Top-level <attr> elements
// and attrs defined inline with a format go into the fallback table;
// every <declare-styleable> becomes a StyleGroup in namespace.
func LoadAttributes(r io.Reader, namespace string) (*AttributeFile, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		Permissive: true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read attributes: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "resources" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	file := &AttributeFile{}
	var inline []*AttributeDefinition
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "attr":
			def, err := parseAttr(child, namespace)
			if err != nil {
				return nil, err
			}
			file.Fallback = append(file.Fallback, def)
		case "declare-styleable":
			group, err := parseStyleable(child, namespace)
			if err != nil {
				return nil, err
			}
			for _, def := range group.Attributes {
				if def.HasMetadata() {
					inline = append(inline, def)
				}
			}
			file.Groups = append(file.Groups, group)
		default:
			log.Debugf("ignoring <%s> in attributes", child.Tag)
		}
	}
	file.Fallback = append(file.Fallback, inline...)
	return file, nil
}

func parseStyleable(el *etree.Element, namespace string) (*StyleGroup, error) {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return nil, fmt.Errorf("declare-styleable without name")
	}

	group := &StyleGroup{
		Name:      name,
		Namespace: namespace,
		Tag:       name,
		Rule:      RuleSelf,
	}
	for _, suffix := range layoutSuffixes {
		if tag, ok := strings.CutSuffix(name, suffix); ok && tag != "" {
			group.Tag = tag
			group.Rule = RuleParent
			break
		}
	}

	for _, child := range el.ChildElements() {
		if child.Tag != "attr" {
			continue
		}
		def, err := parseAttr(child, namespace)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		group.Attributes = append(group.Attributes, def)
	}
	return group, nil
}

// parseAttr reads one <attr>. A name like "android:gravity" refers to an
// attribute of another namespace.
func parseAttr(el *etree.Element, namespace string) (*AttributeDefinition, error) {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return nil, fmt.Errorf("attr without name")
	}

	def := &AttributeDefinition{Name: name, Namespace: namespace}
	if ns, local, ok := strings.Cut(name, ":"); ok {
		def.Namespace, def.Name = ns, local
	}

	if format := el.SelectAttrValue("format", ""); format != "" {
		for _, f := range strings.Split(format, "|") {
			if f = strings.TrimSpace(f); f != "" && !def.HasFormat(f) {
				def.Formats = append(def.Formats, f)
			}
		}
	}

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "enum", "flag":
			value := child.SelectAttrValue("name", "")
			if value == "" {
				continue
			}
			def.Values = append(def.Values, value)
			if !def.HasFormat(child.Tag) {
				def.Formats = append(def.Formats, child.Tag)
			}
		}
	}
	return def, nil
}
