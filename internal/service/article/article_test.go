package article

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"blog-platform/internal/domain/models"
	"blog-platform/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	articles map[int64]models.Article
	category models.Category

	updatedWith *models.ArticleUpdate
	deleted     []int64
	created     []models.Article
}

func (f *fakeStorage) CreateArticle(_ context.Context, title, content string, categoryID, authorID int64) (models.Article, error) {
	art := models.Article{
		ID:         int64(len(f.created) + 100),
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
		AuthorID:   authorID,
	}
	f.created = append(f.created, art)
	return art, nil
}

func (f *fakeStorage) ArticleByID(_ context.Context, id int64) (models.Article, error) {
	art, ok := f.articles[id]
	if !ok {
		return models.Article{}, storage.ErrArticleNotFound
	}
	return art, nil
}

func (f *fakeStorage) ArticlesByAuthor(_ context.Context, authorID int64) ([]models.Article, error) {
	var arts []models.Article
	for _, art := range f.articles {
		if art.AuthorID == authorID {
			arts = append(arts, art)
		}
	}
	return arts, nil
}

func (f *fakeStorage) ArticlesExceptAuthor(_ context.Context, authorID int64) ([]models.Article, error) {
	var arts []models.Article
	for _, art := range f.articles {
		if art.AuthorID != authorID {
			arts = append(arts, art)
		}
	}
	return arts, nil
}

func (f *fakeStorage) UpdateArticle(_ context.Context, id int64, upd models.ArticleUpdate) (models.Article, error) {
	f.updatedWith = &upd
	art := f.articles[id]
	if upd.Title != nil {
		art.Title = *upd.Title
	}
	if upd.Content != nil {
		art.Content = *upd.Content
	}
	if upd.CategoryID != nil {
		art.CategoryID = *upd.CategoryID
	}
	f.articles[id] = art
	return art, nil
}

func (f *fakeStorage) DeleteArticle(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	delete(f.articles, id)
	return nil
}

func (f *fakeStorage) CategoryByID(_ context.Context, id int64) (models.Category, error) {
	if f.category.ID != id {
		return models.Category{}, storage.ErrCategoryNotFound
	}
	return f.category, nil
}

type fakeChat struct {
	answer string
	err    error
	asked  string
}

func (f *fakeChat) ChatWithArticle(_ context.Context, _, _, _, message string) (string, error) {
	f.asked = message
	return f.answer, f.err
}

func (f *fakeChat) GenerateArticle(_ context.Context, prompt string) (string, error) {
	f.asked = prompt
	return f.answer, f.err
}

type fakeArchive struct {
	uploads int
	err     error
}

func (f *fakeArchive) Upload(_ context.Context, _ models.User, _, _ string, _ []byte) (string, error) {
	f.uploads++
	return "key", f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(st *fakeStorage, chat *fakeChat, archive *fakeArchive) *Service {
	var arch FileArchive
	if archive != nil {
		arch = archive
	}
	return New(discardLogger(), st, arch, chat)
}

func TestUpdate_DeniedForNonOwner(t *testing.T) {
	st := &fakeStorage{articles: map[int64]models.Article{
		1: {ID: 1, Title: "mine", Content: "body", AuthorID: 10},
	}}
	svc := newService(st, &fakeChat{}, nil)

	title := "hijacked"
	_, err := svc.Update(context.Background(), 1, 20, models.ArticleUpdate{Title: &title})
	require.ErrorIs(t, err, ErrArticleNotFound)

	// The article is unchanged and the storage update was never reached.
	assert.Nil(t, st.updatedWith)
	assert.Equal(t, "mine", st.articles[1].Title)
}

func TestUpdate_PartialFields(t *testing.T) {
	st := &fakeStorage{articles: map[int64]models.Article{
		1: {ID: 1, Title: "old", Content: "body", CategoryID: 2, AuthorID: 10},
	}}
	svc := newService(st, &fakeChat{}, nil)

	title := "new"
	art, err := svc.Update(context.Background(), 1, 10, models.ArticleUpdate{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "new", art.Title)
	assert.Equal(t, "body", art.Content)
	assert.Equal(t, int64(2), art.CategoryID)

	require.NotNil(t, st.updatedWith)
	assert.Nil(t, st.updatedWith.Content)
	assert.Nil(t, st.updatedWith.CategoryID)
}

func TestDelete_DeniedForNonOwner(t *testing.T) {
	st := &fakeStorage{articles: map[int64]models.Article{
		1: {ID: 1, AuthorID: 10},
	}}
	svc := newService(st, &fakeChat{}, nil)

	err := svc.Delete(context.Background(), 1, 20)
	require.ErrorIs(t, err, ErrArticleNotFound)
	assert.Empty(t, st.deleted)
	assert.Contains(t, st.articles, int64(1))
}

func TestDelete_ByOwner(t *testing.T) {
	st := &fakeStorage{articles: map[int64]models.Article{
		1: {ID: 1, AuthorID: 10},
	}}
	svc := newService(st, &fakeChat{}, nil)

	err := svc.Delete(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.NotContains(t, st.articles, int64(1))
}

func TestDelete_Missing(t *testing.T) {
	st := &fakeStorage{articles: map[int64]models.Article{}}
	svc := newService(st, &fakeChat{}, nil)

	err := svc.Delete(context.Background(), 42, 10)
	require.ErrorIs(t, err, ErrArticleNotFound)
}

func TestCreateFromFile_Text(t *testing.T) {
	st := &fakeStorage{articles: map[int64]models.Article{}}
	archive := &fakeArchive{}
	svc := newService(st, &fakeChat{}, archive)

	author := models.User{ID: 10, FirstName: "Alice", LastName: "Smith"}
	art, err := svc.CreateFromFile(context.Background(), "notes", 2, "notes.txt", "text/plain", []byte("file body"), author)
	require.NoError(t, err)

	assert.Equal(t, "file body", art.Content)
	assert.Equal(t, int64(10), art.AuthorID)
	assert.Equal(t, 1, archive.uploads)
}

func TestCreateFromFile_UnsupportedType(t *testing.T) {
	st := &fakeStorage{articles: map[int64]models.Article{}}
	svc := newService(st, &fakeChat{}, nil)

	_, err := svc.CreateFromFile(context.Background(), "pic", 2, "pic.png", "image/png", []byte{1, 2}, models.User{ID: 10})
	require.ErrorIs(t, err, ErrUnsupportedFile)
	assert.Empty(t, st.created)
}

func TestCreateFromFile_ArchiveFailureIsNotFatal(t *testing.T) {
	st := &fakeStorage{articles: map[int64]models.Article{}}
	archive := &fakeArchive{err: errors.New("bucket unreachable")}
	svc := newService(st, &fakeChat{}, archive)

	_, err := svc.CreateFromFile(context.Background(), "notes", 2, "notes.txt", "text/plain", []byte("x"), models.User{ID: 10})
	require.NoError(t, err)
	assert.Len(t, st.created, 1)
}

func TestChatAbout_MissingArticle(t *testing.T) {
	st := &fakeStorage{articles: map[int64]models.Article{}}
	svc := newService(st, &fakeChat{}, nil)

	_, err := svc.ChatAbout(context.Background(), 5, "what is this about?")
	require.ErrorIs(t, err, ErrArticleNotFound)
}

func TestChatAbout(t *testing.T) {
	st := &fakeStorage{
		articles: map[int64]models.Article{5: {ID: 5, Title: "t", Content: "c", CategoryID: 3}},
		category: models.Category{ID: 3, Name: "tech"},
	}
	chat := &fakeChat{answer: "it is about tech"}
	svc := newService(st, chat, nil)

	answer, err := svc.ChatAbout(context.Background(), 5, "what is this about?")
	require.NoError(t, err)
	assert.Equal(t, "it is about tech", answer)
	assert.Equal(t, "what is this about?", chat.asked)
}

func TestGenerateDraft(t *testing.T) {
	chat := &fakeChat{answer: `{"title":"a","content":"b"}`}
	svc := newService(&fakeStorage{}, chat, nil)

	draft, err := svc.GenerateDraft(context.Background(), "write about go")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"a","content":"b"}`, string(draft))
}

func TestGenerateDraft_NotJSON(t *testing.T) {
	chat := &fakeChat{answer: "sorry, I cannot do that"}
	svc := newService(&fakeStorage{}, chat, nil)

	_, err := svc.GenerateDraft(context.Background(), "write about go")
	require.ErrorIs(t, err, ErrBadDraft)
}
