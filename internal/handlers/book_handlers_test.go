package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookly/internal/models"
)

func createBook(env *testEnv, book map[string]any) models.Book {
	rec := env.do(http.MethodPost, "/api/v1/books", book, "")
	require.Equal(env.T, http.StatusCreated, rec.Code)

	var created models.Book
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestCreateAndListBooks(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/books", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	first := createBook(env, map[string]any{"title": "Dune", "author": "Frank Herbert"})
	require.Equal(t, 1, first.ID)
	second := createBook(env, map[string]any{"title": "Hyperion", "author": "Dan Simmons"})
	require.Equal(t, 2, second.ID)

	rec = env.do(http.MethodGet, "/api/v1/books", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var books []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 2)
}

func TestGetBook(t *testing.T) {
	env := newTestEnv(t)
	created := createBook(env, map[string]any{"title": "Dune", "author": "Frank Herbert"})

	rec := env.do(http.MethodGet, "/api/v1/books/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var book models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))
	require.Equal(t, created, book)

	rec = env.do(http.MethodGet, "/api/v1/books/99", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchBook(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPatch, "/api/v1/books/3", map[string]any{"title": "New"}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	createBook(env, map[string]any{"id": 3, "title": "Old", "author": "Someone", "page_count": 100})

	rec = env.do(http.MethodPatch, "/api/v1/books/3", map[string]any{"title": "New"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var patched models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	require.Equal(t, "New", patched.Title)
	// untouched fields stay as they were
	require.Equal(t, "Someone", patched.Author)
	require.Equal(t, 100, patched.PageCount)
}

func TestDeleteBook(t *testing.T) {
	env := newTestEnv(t)
	createBook(env, map[string]any{"title": "Dune"})

	rec := env.do(http.MethodDelete, "/api/v1/books/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, "/api/v1/books/1", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/books/1", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/books/search", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
