package service

import (
	"context"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/editsession"
	"github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// EditBookFields applies raw string field edits to a book through an edit
// session: the dashboard's inline forms submit every input as text, so
// coercion failures are reported per field instead of as JSON type errors.
// The session commits through EditBook, so the same validation and inventory
// checks apply.
func (s *AdminService) EditBookFields(ctx context.Context, bookID string, fields map[string]string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("book not found")
		}
		return nil, errors.StorageWrap(err, "get book")
	}

	session := editsession.New(bookEditFields(), func(ctx context.Context, draft *domain.Book) (*domain.Book, error) {
		return s.EditBook(ctx, bookID, BookInput{
			Title:           draft.Title,
			Author:          draft.Author,
			Genre:           draft.Genre,
			Rating:          draft.Rating,
			TotalCopies:     draft.TotalCopies,
			AvailableCopies: draft.AvailableCopies,
			Description:     draft.Description,
			CoverColor:      draft.CoverColor,
			CoverURL:        draft.CoverURL,
			VideoURL:        draft.VideoURL,
			Summary:         draft.Summary,
		})
	})

	session.Open(book)
	for name, raw := range fields {
		session.UpdateField(name, raw)
	}
	return session.Submit(ctx)
}

// EditUserFields applies raw string field edits to a user through an edit
// session, committing through EditUser.
func (s *AdminService) EditUserFields(ctx context.Context, userID string, fields map[string]string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.StorageWrap(err, "get user")
	}

	session := editsession.New(userEditFields(), func(ctx context.Context, draft *domain.User) (*domain.User, error) {
		return s.EditUser(ctx, userID, UserInput{
			FullName:       draft.FullName,
			Email:          draft.Email,
			UniversityID:   draft.UniversityID,
			UniversityCard: draft.UniversityCard,
			Role:           string(draft.Role),
		})
	})

	session.Open(user)
	for name, raw := range fields {
		session.UpdateField(name, raw)
	}
	return session.Submit(ctx)
}

func bookEditFields() []editsession.Field[*domain.Book] {
	return []editsession.Field[*domain.Book]{
		{Name: "title", Kind: editsession.KindString, Set: func(b *domain.Book, v any) { b.Title = v.(string) }},
		{Name: "author", Kind: editsession.KindString, Set: func(b *domain.Book, v any) { b.Author = v.(string) }},
		{Name: "genre", Kind: editsession.KindString, Set: func(b *domain.Book, v any) { b.Genre = v.(string) }},
		{Name: "rating", Kind: editsession.KindNumber, Set: func(b *domain.Book, v any) { b.Rating = v.(float64) }},
		{Name: "total_copies", Kind: editsession.KindNumber, Set: func(b *domain.Book, v any) { b.TotalCopies = int(v.(float64)) }},
		{Name: "available_copies", Kind: editsession.KindNumber, Set: func(b *domain.Book, v any) { b.AvailableCopies = int(v.(float64)) }},
		{Name: "description", Kind: editsession.KindString, Set: func(b *domain.Book, v any) { b.Description = v.(string) }},
		{Name: "cover_color", Kind: editsession.KindString, Set: func(b *domain.Book, v any) { b.CoverColor = v.(string) }},
		{Name: "cover_url", Kind: editsession.KindString, Set: func(b *domain.Book, v any) { b.CoverURL = v.(string) }},
		{Name: "video_url", Kind: editsession.KindString, Set: func(b *domain.Book, v any) { b.VideoURL = v.(string) }},
		{Name: "summary", Kind: editsession.KindString, Set: func(b *domain.Book, v any) { b.Summary = v.(string) }},
	}
}

func userEditFields() []editsession.Field[*domain.User] {
	return []editsession.Field[*domain.User]{
		{Name: "full_name", Kind: editsession.KindString, Set: func(u *domain.User, v any) { u.FullName = v.(string) }},
		{Name: "email", Kind: editsession.KindString, Set: func(u *domain.User, v any) { u.Email = v.(string) }},
		{Name: "university_id", Kind: editsession.KindNumber, Set: func(u *domain.User, v any) { u.UniversityID = int64(v.(float64)) }},
		{Name: "university_card", Kind: editsession.KindString, Set: func(u *domain.User, v any) { u.UniversityCard = v.(string) }},
		{Name: "role", Kind: editsession.KindString, Set: func(u *domain.User, v any) { u.Role = domain.Role(v.(string)) }},
	}
}
