package model

import "time"

// Group names one projection: the set of fields exposed for an operation
type Group string

const (
	GroupUserRead       Group = "user:read"
	GroupUserWrite      Group = "user:write"
	GroupUserItemGet    Group = "user:item:get"
	GroupArticleRead    Group = "article:read"
	GroupArticleWrite   Group = "article:write"
	GroupArticleItemGet Group = "article:item:get"
)

// Resource is the name used for a resource in the projection table and in IRIs
type Resource string

const (
	ResourceUser    Resource = "users"
	ResourceArticle Resource = "articles"
)

// Groups is an unordered set of projection groups
type Groups map[Group]struct{}

func NewGroups(gs ...Group) Groups {
	out := make(Groups, len(gs))
	for _, g := range gs {
		out[g] = struct{}{}
	}
	return out
}

func (g Groups) Has(group Group) bool {
	_, ok := g[group]
	return ok
}

// Operation contexts
var (
	UserCollectionRead    = NewGroups(GroupUserRead)
	UserItemRead          = NewGroups(GroupUserRead, GroupUserItemGet)
	UserWrite             = NewGroups(GroupUserWrite)
	ArticleCollectionRead = NewGroups(GroupArticleRead)
	ArticleItemRead       = NewGroups(GroupArticleRead, GroupArticleItemGet)
	ArticleWrite          = NewGroups(GroupArticleWrite)
)

// ====================================
// VISIBILITY TABLE
// ====================================

// visibility: resource -> field -> groups có chứa field đó.
// Serializer và request decoder chỉ đọc bảng này.
var visibility = map[Resource]map[string][]Group{
	ResourceUser: {
		"id":         {GroupUserRead, GroupUserItemGet, GroupArticleRead, GroupArticleItemGet},
		"email":      {GroupUserRead, GroupUserWrite, GroupArticleItemGet, GroupArticleWrite},
		"password":   {GroupUserWrite},
		"username":   {GroupUserRead, GroupUserWrite, GroupArticleItemGet, GroupArticleWrite},
		"lastname":   {GroupUserRead, GroupUserWrite, GroupArticleItemGet, GroupArticleWrite},
		"birthday":   {GroupUserRead, GroupUserWrite},
		"phone":      {GroupUserRead, GroupUserWrite},
		"address":    {GroupUserRead, GroupUserWrite},
		"license":    {GroupUserRead, GroupUserWrite},
		"status":     {GroupUserRead},
		"isVerified": {GroupUserRead},
		"roles":      {GroupUserRead},
		"article":    {GroupUserItemGet, GroupUserWrite},
	},
	ResourceArticle: {
		"id":           {GroupArticleRead, GroupUserItemGet},
		"title":        {GroupArticleRead, GroupArticleWrite, GroupUserItemGet},
		"content":      {GroupArticleRead, GroupArticleWrite, GroupUserItemGet},
		"createdAt":    {GroupArticleRead, GroupUserItemGet},
		"updatedAt":    {GroupArticleRead, GroupUserItemGet},
		"slug":         {GroupArticleRead, GroupUserItemGet},
		"isPublished":  {GroupArticleRead, GroupArticleWrite, GroupUserItemGet},
		"createdAtAgo": {GroupArticleRead},
		"author":       {GroupArticleRead, GroupArticleWrite},
	},
}

// Visible reports whether field of resource belongs to at least one of groups
func Visible(resource Resource, field string, groups Groups) bool {
	for _, g := range visibility[resource][field] {
		if groups.Has(g) {
			return true
		}
	}
	return false
}

// Fields lists the fields of resource visible to groups
func Fields(resource Resource, groups Groups) []string {
	var out []string
	for field := range visibility[resource] {
		if Visible(resource, field, groups) {
			out = append(out, field)
		}
	}
	return out
}

// ====================================
// SERIALIZATION
// ====================================

// Document is a projected resource, ready for JSON encoding
type Document map[string]any

const dateLayout = "2006-01-02"

// ProjectUser renders u with the fields groups allow. Embedded articles use the same groups.
func ProjectUser(u *User, groups Groups, now time.Time) Document {
	return newProjector(groups, now).user(u)
}

// ProjectArticle renders a with the fields groups allow. The embedded author uses the same groups.
func ProjectArticle(a *Article, groups Groups, now time.Time) Document {
	return newProjector(groups, now).article(a)
}

// projector giữ path hiện tại; object đã có trên path chỉ được render id
type projector struct {
	groups   Groups
	now      time.Time
	users    map[*User]bool
	articles map[*Article]bool
}

func newProjector(groups Groups, now time.Time) *projector {
	return &projector{
		groups:   groups,
		now:      now,
		users:    make(map[*User]bool),
		articles: make(map[*Article]bool),
	}
}

func (p *projector) visible(r Resource, field string) bool {
	return Visible(r, field, p.groups)
}

func (p *projector) user(u *User) Document {
	if u == nil {
		return nil
	}
	if p.users[u] {
		return Document{"id": u.ID}
	}
	p.users[u] = true
	defer delete(p.users, u)

	doc := Document{}
	set := func(field string, value func() any) {
		if p.visible(ResourceUser, field) {
			doc[field] = value()
		}
	}

	set("id", func() any { return u.ID })
	set("email", func() any { return u.Email })
	set("username", func() any { return u.Username })
	set("lastname", func() any { return u.Lastname })
	set("birthday", func() any { return formatDate(u.Birthday) })
	set("phone", func() any { return u.Phone })
	set("address", func() any { return u.Address })
	set("license", func() any { return u.License })
	set("status", func() any { return u.Status })
	set("isVerified", func() any { return u.IsVerified })
	set("roles", func() any { return u.Roles() })
	set("article", func() any {
		items := make([]Document, 0, len(u.Articles))
		for _, a := range u.Articles {
			items = append(items, p.article(a))
		}
		return items
	})

	// password không thuộc read group nào nên không bao giờ được render
	return p.embedded(doc, u.ID)
}

func (p *projector) article(a *Article) Document {
	if a == nil {
		return nil
	}
	if p.articles[a] {
		return Document{"id": a.ID}
	}
	p.articles[a] = true
	defer delete(p.articles, a)

	doc := Document{}
	set := func(field string, value func() any) {
		if p.visible(ResourceArticle, field) {
			doc[field] = value()
		}
	}

	set("id", func() any { return a.ID })
	set("title", func() any { return a.Title })
	set("content", func() any { return a.Content })
	set("createdAt", func() any { return a.CreatedAt.Format(time.RFC3339) })
	set("updatedAt", func() any { return formatTime(a.UpdatedAt) })
	set("slug", func() any { return a.Slug })
	set("isPublished", func() any { return a.IsPublished })
	set("createdAtAgo", func() any { return a.CreatedAtAgo(p.now) })
	set("author", func() any {
		if a.Author == nil {
			return nil
		}
		return p.user(a.Author)
	})

	return p.embedded(doc, a.ID)
}

// embedded: relation nhúng luôn có ít nhất id
func (p *projector) embedded(doc Document, id int64) Document {
	if _, ok := doc["id"]; !ok && len(doc) == 0 {
		doc["id"] = id
	}
	return doc
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
