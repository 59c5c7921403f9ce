// Package knowledge holds the static indii.music knowledge base that is fed
// into role prompts, along with a substring search over it.
//
// The base is a tree of ordered maps whose leaves are strings or string
// lists. Key order is significant: it is the order entries appear in the
// rendered prompt, so the tree is decoded from yaml.Node rather than into
// Go maps.
package knowledge

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var builtinYAML []byte

// Section names of the built-in base.
const (
	SectionPlatform = "platform"
	SectionGeneral  = "general"
)

// ═══════════════════════════════════════════════════════════════════════════════
// VALUE TREE
// ═══════════════════════════════════════════════════════════════════════════════

// Kind identifies the shape of a Value.
type Kind int

const (
	KindText Kind = iota // single string
	KindList             // list of strings
	KindMap              // ordered map of nested values
)

// Field is one key of a map Value.
type Field struct {
	Key   string
	Value *Value
}

// Value is a node of the knowledge tree.
type Value struct {
	Kind   Kind
	Text   string
	Items  []string
	Fields []Field
}

// Get returns the value stored under key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != KindMap {
		return nil
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// Keys returns the map keys in order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != KindMap {
		return nil
	}
	keys := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		keys[i] = f.Key
	}
	return keys
}

// set replaces an existing key in place or appends a new one.
func (v *Value) set(key string, val *Value) {
	for i := range v.Fields {
		if v.Fields[i].Key == key {
			v.Fields[i].Value = val
			return
		}
	}
	v.Fields = append(v.Fields, Field{Key: key, Value: val})
}

func (v *Value) clone() *Value {
	if v == nil {
		return nil
	}
	out := &Value{Kind: v.Kind, Text: v.Text}
	if v.Items != nil {
		out.Items = append([]string(nil), v.Items...)
	}
	if v.Fields != nil {
		out.Fields = make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			out.Fields[i] = Field{Key: f.Key, Value: f.Value.clone()}
		}
	}
	return out
}

// MarshalJSON renders the value with map keys in their original order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case KindText:
		return writeString(buf, v.Text)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, f.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.Kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// JSON renders the value as two-space indented JSON, the form used inside
// prompts.
func (v *Value) JSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to render knowledge: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// BASE
// ═══════════════════════════════════════════════════════════════════════════════

// Base is a read-only knowledge base.
type Base struct {
	root *Value
}

// Load decodes a knowledge base from YAML. The document must be a mapping of
// section names to mappings.
func Load(data []byte) (*Base, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("knowledge document is empty")
	}

	root, err := decode(doc.Content[0], "")
	if err != nil {
		return nil, err
	}
	if root.Kind != KindMap {
		return nil, fmt.Errorf("knowledge root must be a mapping")
	}
	for _, f := range root.Fields {
		if f.Value.Kind != KindMap {
			return nil, fmt.Errorf("knowledge section %q must be a mapping", f.Key)
		}
	}
	return &Base{root: root}, nil
}

func decode(n *yaml.Node, path string) (*Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return &Value{Kind: KindText, Text: n.Value}, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for i, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%s[%d]: list items must be strings", path, i)
			}
			items = append(items, c.Value)
		}
		return &Value{Kind: KindList, Items: items}, nil
	case yaml.MappingNode:
		v := &Value{Kind: KindMap}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			child, err := decode(n.Content[i+1], joinPath(path, key))
			if err != nil {
				return nil, err
			}
			v.set(key, child)
		}
		return v, nil
	case yaml.AliasNode:
		return decode(n.Alias, path)
	default:
		return nil, fmt.Errorf("%s: unsupported YAML node", path)
	}
}

var builtin *Base

func init() {
	b, err := Load(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded knowledge base: %v", err))
	}
	builtin = b
}

// Default returns the embedded knowledge base.
func Default() *Base {
	return builtin
}

// Sections returns the section names in order.
func (b *Base) Sections() []string {
	return b.root.Keys()
}

// Section returns a copy of one section, or nil.
func (b *Base) Section(name string) *Value {
	return b.root.Get(name).clone()
}

// All returns a copy of the whole base.
func (b *Base) All() *Value {
	return b.root.clone()
}

// ForRole returns the knowledge relevant to a role: the platform section as
// a nested entry, then the general entries, then the entries of the section
// named after the role. Later keys overwrite earlier ones in place. Roles
// with no section of their own get platform and general only.
func (b *Base) ForRole(roleID string) *Value {
	out := &Value{Kind: KindMap}
	if p := b.root.Get(SectionPlatform); p != nil {
		out.set(SectionPlatform, p.clone())
	}
	for _, section := range []string{SectionGeneral, roleID} {
		s := b.root.Get(section)
		if s == nil {
			continue
		}
		for _, f := range s.Fields {
			out.set(f.Key, f.Value.clone())
		}
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════════
// SEARCH
// ═══════════════════════════════════════════════════════════════════════════════

// Result is one search hit.
type Result struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Relevance int    `json:"relevance"`
}

// Search finds every string leaf and list item containing query, ignoring
// case. With a role id the role view from ForRole is searched, otherwise the
// whole base. Results are ordered by the byte offset of the first match,
// earliest first; ties keep document order.
func (b *Base) Search(query, roleID string) []Result {
	scope := b.root
	if roleID != "" {
		scope = b.ForRole(roleID)
	}

	var results []Result
	search(scope, "", "", strings.ToLower(query), &results)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance < results[j].Relevance
	})
	return results
}

func search(v *Value, path, category, term string, out *[]Result) {
	for _, f := range v.Fields {
		current := joinPath(path, f.Key)
		cat := category
		if cat == "" {
			cat = f.Key
		}

		switch f.Value.Kind {
		case KindText:
			if i := strings.Index(strings.ToLower(f.Value.Text), term); i >= 0 {
				*out = append(*out, Result{Path: current, Content: f.Value.Text, Category: cat, Relevance: i})
			}
		case KindList:
			for idx, item := range f.Value.Items {
				if i := strings.Index(strings.ToLower(item), term); i >= 0 {
					*out = append(*out, Result{
						Path:      fmt.Sprintf("%s[%d]", current, idx),
						Content:   item,
						Category:  cat,
						Relevance: i,
					})
				}
			}
		case KindMap:
			search(f.Value, current, cat, term, out)
		}
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
