package model

import (
	"net/url"
	"strconv"
	"strings"
)

const propertiesParam = "properties"

// PropertyFilter narrows an already projected document to the requested properties.
// Nested holds filters for embedded relations, e.g. properties[author][]=username.
type PropertyFilter struct {
	Fields map[string]struct{}
	Nested map[string]*PropertyFilter
}

func newPropertyFilter() *PropertyFilter {
	return &PropertyFilter{
		Fields: make(map[string]struct{}),
		Nested: make(map[string]*PropertyFilter),
	}
}

// ParseProperties đọc properties[]=a&properties[author][]=b từ query string.
// Trả về nil khi không có tham số nào (không filter).
func ParseProperties(query url.Values) *PropertyFilter {
	var root *PropertyFilter
	for key, values := range query {
		if key != propertiesParam && !strings.HasPrefix(key, propertiesParam+"[") {
			continue
		}
		path, ok := bracketPath(strings.TrimPrefix(key, propertiesParam))
		if !ok {
			continue
		}
		if root == nil {
			root = newPropertyFilter()
		}
		target := root
		for _, name := range path {
			next, exists := target.Nested[name]
			if !exists {
				next = newPropertyFilter()
				target.Nested[name] = next
			}
			target = next
		}
		for _, v := range values {
			for _, field := range strings.Split(v, ",") {
				if field = strings.TrimSpace(field); field != "" {
					target.Fields[field] = struct{}{}
				}
			}
		}
	}
	return root
}

// bracketPath: "[author][]" -> ["author"]; "[]" -> []; "" -> []
func bracketPath(s string) ([]string, bool) {
	var path []string
	for s != "" {
		if s[0] != '[' {
			return nil, false
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, false
		}
		seg := s[1:end]
		s = s[end+1:]
		if seg == "" {
			continue
		}
		if _, err := strconv.Atoi(seg); err == nil {
			continue
		}
		path = append(path, seg)
	}
	return path, true
}

// Apply removes every key of doc not requested. id is always kept.
// A nil filter leaves doc untouched.
func (f *PropertyFilter) Apply(doc Document) Document {
	if f == nil || doc == nil {
		return doc
	}
	for key, value := range doc {
		if key == "id" {
			continue
		}
		if nested, ok := f.Nested[key]; ok {
			doc[key] = nested.applyValue(value)
			continue
		}
		if _, ok := f.Fields[key]; !ok {
			delete(doc, key)
		}
	}
	return doc
}

func (f *PropertyFilter) applyValue(value any) any {
	switch v := value.(type) {
	case Document:
		return f.Apply(v)
	case []Document:
		for i := range v {
			v[i] = f.Apply(v[i])
		}
		return v
	default:
		return value
	}
}
