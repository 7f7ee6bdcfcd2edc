package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ====================================
// REQUEST PRIMITIVES
// ====================================

// Nullable phân biệt 3 trạng thái: key vắng mặt, null, có giá trị
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(bytes.TrimSpace(data)) == "null" {
		var zero T
		n.Null = true
		n.Value = zero
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// Present reports whether the key carried a non-null value
func (n Nullable[T]) Present() bool {
	return n.Set && !n.Null
}

// Date accepts "YYYY-MM-DD" or RFC3339
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: date must be a string", ErrInvalidBody)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate parses "YYYY-MM-DD" or RFC3339
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidBody, s)
}

// Ref trỏ tới resource khác: id số, chuỗi số, IRI (/api/v1/users/3) hoặc {"id": 3}.
// Object không có id là document mới nhúng vào, giữ nguyên trong Fields.
type Ref struct {
	ID     int64
	Fields map[string]json.RawMessage

	// Collection là segment trước id trong IRI, rỗng với id trần
	Collection Resource
}

// IsNew reports whether the reference is an embedded document to be created
func (r Ref) IsNew() bool {
	return r.ID == 0 && r.Fields != nil
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidReference
	}

	switch data[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		for _, key := range []string{"id", "@id"} {
			if raw, ok := obj[key]; ok {
				var inner Ref
				if err := inner.UnmarshalJSON(raw); err != nil {
					return err
				}
				if inner.ID == 0 {
					return ErrInvalidReference
				}
				r.ID = inner.ID
				r.Collection = inner.Collection
				return nil
			}
		}
		r.Fields = obj
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		collection, id, err := splitIRI(s)
		if err != nil {
			return err
		}
		r.ID = id
		r.Collection = collection
		return nil
	default:
		id, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil || id <= 0 {
			return ErrInvalidReference
		}
		r.ID = id
		return nil
	}
}

// expect kiểm tra IRI trỏ đúng collection của resource
func (r Ref) expect(resource Resource) error {
	if r.Collection != "" && r.Collection != resource {
		return fmt.Errorf("%w: /%s/%d is not a %s IRI", ErrInvalidReference, r.Collection, r.ID, resource)
	}
	return nil
}

// ParseIRI lấy id từ "3", "/users/3" hoặc "/api/v1/users/3".
// IRI có collection khác resource bị từ chối.
func ParseIRI(s string, resource Resource) (int64, error) {
	collection, id, err := splitIRI(s)
	if err != nil {
		return 0, err
	}
	if err := (Ref{ID: id, Collection: collection}).expect(resource); err != nil {
		return 0, err
	}
	return id, nil
}

func splitIRI(s string) (Resource, int64, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	var collection string
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		collection = s[:i]
		s = s[i+1:]
		if j := strings.LastIndexByte(collection, '/'); j >= 0 {
			collection = collection[j+1:]
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, ErrInvalidReference
	}
	return Resource(collection), id, nil
}

// ====================================
// WRITE PAYLOADS
// ====================================

// UserPayload is the user:write projection of a request body
type UserPayload struct {
	Email    Nullable[string] `json:"email"`
	Password Nullable[string] `json:"password"`
	Username Nullable[string] `json:"username"`
	Lastname Nullable[string] `json:"lastname"`
	Birthday Nullable[Date]   `json:"birthday"`
	Phone    Nullable[string] `json:"phone"`
	Address  Nullable[string] `json:"address"`
	License  Nullable[string] `json:"license"`
	Article  Nullable[[]Ref]  `json:"article"`
}

// ArticlePayload is the article:write projection of a request body
type ArticlePayload struct {
	Title       Nullable[string] `json:"title"`
	Content     Nullable[string] `json:"content"`
	IsPublished Nullable[bool]   `json:"isPublished"`
	Author      Nullable[Ref]    `json:"author"`
}

// DecodeUserPayload keeps only the keys allowed by groups; the rest is ignored.
func DecodeUserPayload(body []byte, groups Groups) (*UserPayload, error) {
	p := &UserPayload{}
	if err := decodeWritable(body, ResourceUser, groups, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeArticlePayload keeps only the keys allowed by groups; the rest is ignored.
func DecodeArticlePayload(body []byte, groups Groups) (*ArticlePayload, error) {
	p := &ArticlePayload{}
	if err := decodeWritable(body, ResourceArticle, groups, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeUserFields decodes an embedded user document (already split into keys)
func DecodeUserFields(fields map[string]json.RawMessage, groups Groups) (*UserPayload, error) {
	p := &UserPayload{}
	if err := decodeFields(fields, ResourceUser, groups, p); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeWritable(body []byte, resource Resource, groups Groups, dst any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidBody)
	}
	return decodeFields(fields, resource, groups, dst)
}

func decodeFields(fields map[string]json.RawMessage, resource Resource, groups Groups, dst any) error {
	writable := make(map[string]json.RawMessage, len(fields))
	for key, raw := range fields {
		if Visible(resource, key, groups) {
			writable[key] = raw
		}
	}
	filtered, err := json.Marshal(writable)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := json.Unmarshal(filtered, dst); err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if c, ok := dst.(interface{ checkRefs() error }); ok {
		return c.checkRefs()
	}
	return nil
}

// checkRefs: article chỉ được tham chiếu bằng id/IRI, không tạo qua user
func (p *UserPayload) checkRefs() error {
	for i, ref := range p.Article.Value {
		if ref.IsNew() {
			return fmt.Errorf("%w: article[%d] must be an id or IRI of an existing article", ErrInvalidReference, i)
		}
		if err := ref.expect(ResourceArticle); err != nil {
			return err
		}
	}
	return nil
}

func (p *ArticlePayload) checkRefs() error {
	if !p.Author.Present() {
		return nil
	}
	return p.Author.Value.expect(ResourceUser)
}

func isDomainError(err error) bool {
	return ToHTTPStatus(err) != 500
}

// ApplyTo copies the payload onto u. With replace, absent fields are reset,
// except password and the article collection which are kept.
func (p *UserPayload) ApplyTo(u *User, replace bool) {
	applyString(&u.Email, p.Email, replace)
	applyString(&u.Username, p.Username, replace)
	applyString(&u.Lastname, p.Lastname, replace)
	applyString(&u.Password, p.Password, false)
	applyStringPtr(&u.Phone, p.Phone, replace)
	applyStringPtr(&u.Address, p.Address, replace)
	applyStringPtr(&u.License, p.License, replace)

	switch {
	case p.Birthday.Present():
		t := p.Birthday.Value.Time
		u.Birthday = &t
	case p.Birthday.Set, replace:
		u.Birthday = nil
	}
}

// ApplyTo copies scalar fields onto a; the author reference is resolved by the caller.
func (p *ArticlePayload) ApplyTo(a *Article, replace bool) {
	applyString(&a.Title, p.Title, replace)
	applyString(&a.Content, p.Content, replace)

	switch {
	case p.IsPublished.Present():
		a.IsPublished = p.IsPublished.Value
	case p.IsPublished.Set, replace:
		a.IsPublished = false
	}
}

func applyString(dst *string, v Nullable[string], replace bool) {
	switch {
	case v.Present():
		*dst = v.Value
	case v.Set, replace:
		*dst = ""
	}
}

func applyStringPtr(dst **string, v Nullable[string], replace bool) {
	switch {
	case v.Present():
		s := v.Value
		*dst = &s
	case v.Set, replace:
		*dst = nil
	}
}
