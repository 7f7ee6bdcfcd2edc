package model

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistedUserWithArticle() (*User, *Article) {
	u := validUser()
	u.ID = 1
	a := validArticle(u)
	a.ID = 10
	return u, a
}

func TestVisible_PasswordIsWriteOnly(t *testing.T) {
	for _, groups := range []Groups{UserCollectionRead, UserItemRead, ArticleCollectionRead, ArticleItemRead} {
		assert.False(t, Visible(ResourceUser, "password", groups))
	}
	assert.True(t, Visible(ResourceUser, "password", UserWrite))
	assert.False(t, Visible(ResourceUser, "password", ArticleWrite))
}

func TestProjectUser_CollectionRead(t *testing.T) {
	u, _ := persistedUserWithArticle()

	doc := ProjectUser(u, UserCollectionRead, testNow)

	assert.NotContains(t, doc, "password")
	assert.NotContains(t, doc, "article")
	assert.Equal(t, int64(1), doc["id"])
	assert.Equal(t, "jane@example.com", doc["email"])
	assert.Equal(t, "1990-01-02", doc["birthday"])
	assert.Equal(t, []string{RoleUser}, doc["roles"])
	assert.Contains(t, doc, "phone")
	assert.Nil(t, doc["phone"])
}

func TestProjectUser_ItemReadEmbedsArticles(t *testing.T) {
	u, _ := persistedUserWithArticle()

	doc := ProjectUser(u, UserItemRead, testNow)

	assert.NotContains(t, doc, "password")
	articles, ok := doc["article"].([]Document)
	require.True(t, ok)
	require.Len(t, articles, 1)

	a := articles[0]
	assert.Equal(t, int64(10), a["id"])
	assert.Equal(t, "Hello world", a["title"])
	assert.Contains(t, a, "content")
	assert.Contains(t, a, "createdAt")
	assert.Contains(t, a, "isPublished")
	assert.NotContains(t, a, "author")
	assert.NotContains(t, a, "createdAtAgo")
}

func TestProjectArticle_CollectionReadEmbedsAuthorID(t *testing.T) {
	_, a := persistedUserWithArticle()

	doc := ProjectArticle(a, ArticleCollectionRead, testNow.Add(2*time.Hour))

	assert.Equal(t, "2 hours ago", doc["createdAtAgo"])
	assert.Equal(t, testNow.Format(time.RFC3339), doc["createdAt"])
	assert.Nil(t, doc["updatedAt"])
	assert.Equal(t, Document{"id": int64(1)}, doc["author"])
}

func TestProjectArticle_ItemReadEmbedsAuthorIdentity(t *testing.T) {
	_, a := persistedUserWithArticle()

	doc := ProjectArticle(a, ArticleItemRead, testNow)

	author, ok := doc["author"].(Document)
	require.True(t, ok)
	assert.Equal(t, int64(1), author["id"])
	assert.Equal(t, "jane@example.com", author["email"])
	assert.Equal(t, "Jane", author["username"])
	assert.Equal(t, "Doe", author["lastname"])
	assert.NotContains(t, author, "password")
	assert.NotContains(t, author, "birthday")
}

func TestProjectArticle_NilAuthor(t *testing.T) {
	a := validArticle(nil)
	doc := ProjectArticle(a, ArticleCollectionRead, testNow)

	assert.Contains(t, doc, "author")
	assert.Nil(t, doc["author"])
}

func TestProject_CycleRendersID(t *testing.T) {
	u, a := persistedUserWithArticle()
	groups := NewGroups(GroupUserItemGet, GroupArticleRead)

	doc := ProjectUser(u, groups, testNow)

	articles := doc["article"].([]Document)
	require.Len(t, articles, 1)
	assert.Equal(t, Document{"id": u.ID}, articles[0]["author"])
	assert.Equal(t, a.ID, articles[0]["id"])
}

func TestPropertyFilter(t *testing.T) {
	_, a := persistedUserWithArticle()
	query := url.Values{
		"properties[]":         {"title"},
		"properties[author][]": {"username"},
	}

	props := ParseProperties(query)
	require.NotNil(t, props)

	doc := props.Apply(ProjectArticle(a, ArticleItemRead, testNow))

	assert.Equal(t, Document{
		"id":     int64(10),
		"title":  "Hello world",
		"author": Document{"id": int64(1), "username": "Jane"},
	}, doc)
}

func TestPropertyFilter_CannotWiden(t *testing.T) {
	u, _ := persistedUserWithArticle()
	props := ParseProperties(url.Values{"properties[]": {"password", "email"}})

	doc := props.Apply(ProjectUser(u, UserCollectionRead, testNow))

	assert.Equal(t, Document{"id": int64(1), "email": "jane@example.com"}, doc)
}

func TestParseProperties_None(t *testing.T) {
	assert.Nil(t, ParseProperties(url.Values{"page": {"2"}}))

	var f *PropertyFilter
	doc := Document{"id": 1, "title": "x"}
	assert.Equal(t, doc, f.Apply(doc))
}
