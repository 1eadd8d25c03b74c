package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/browse"
	"github.com/shelfmark/shelfmark-server/internal/domain"
)

func (s *Server) registerBorrowRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBorrowRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/borrow-records",
		Summary:     "List borrow records",
		Description: "One page of the admin borrow table, with member and book names resolved",
		Tags:        []string{"Borrowing"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBorrowRecords)

	huma.Register(s.api, huma.Operation{
		OperationID: "setBorrowStatus",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/borrow-records/{id}/status",
		Summary:     "Set borrow status",
		Description: "Moves a borrow record to a new status; the return date follows the status",
		Tags:        []string{"Borrowing"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetBorrowStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "approveBorrow",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/borrow-records/{id}/approve",
		Summary:     "Approve borrow request",
		Tags:        []string{"Borrowing"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleApproveBorrow)

	huma.Register(s.api, huma.Operation{
		OperationID: "returnBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/borrow-records/{id}/return",
		Summary:     "Return book",
		Tags:        []string{"Borrowing"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReturnBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "requestBorrow",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/borrow",
		Summary:     "Request to borrow a book",
		Tags:        []string{"Borrowing"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRequestBorrow)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyBorrowRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/borrow-records",
		Summary:     "List my borrow records",
		Tags:        []string{"Borrowing"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyBorrowRecords)
}

// BorrowRecordResponse contains borrow record data in API responses.
// Member and book names are resolved for table display.
type BorrowRecordResponse struct {
	ID         string     `json:"id" doc:"Record ID"`
	BookID     string     `json:"book_id" doc:"Borrowed book"`
	UserID     string     `json:"user_id" doc:"Borrowing member"`
	UserName   string     `json:"user_name,omitempty" doc:"Member name, when resolved"`
	BookTitle  string     `json:"book_title,omitempty" doc:"Book title, when resolved"`
	BorrowDate *time.Time `json:"borrow_date,omitempty" doc:"When the copy went out"`
	DueDate    *time.Time `json:"due_date,omitempty" doc:"Day the copy is due back"`
	ReturnDate *time.Time `json:"return_date,omitempty" doc:"When the copy came back"`
	Status     string     `json:"status" doc:"PENDING, BORROWED, or RETURNED"`
	CreatedAt  time.Time  `json:"created_at" doc:"When the request was filed"`
}

func toBorrowRecordResponse(rec *domain.BorrowRecord) BorrowRecordResponse {
	return BorrowRecordResponse{
		ID:         rec.ID,
		BookID:     rec.BookID,
		UserID:     rec.UserID,
		BorrowDate: rec.BorrowDate,
		DueDate:    rec.DueDate,
		ReturnDate: rec.ReturnDate,
		Status:     string(rec.Status),
		CreatedAt:  rec.CreatedAt,
	}
}

func toRecordRowResponse(row recordRow) BorrowRecordResponse {
	resp := toBorrowRecordResponse(row.Rec)
	resp.UserName = row.UserName
	resp.BookTitle = row.BookTitle
	return resp
}

// ListBorrowRecordsInput contains the admin borrow table controls.
type ListBorrowRecordsInput struct {
	Authorization string `header:"Authorization"`
	TableQuery
}

// BorrowTableOutput wraps one page of the borrow table for Huma.
type BorrowTableOutput struct {
	Body TablePage[BorrowRecordResponse]
}

func (s *Server) handleListBorrowRecords(ctx context.Context, input *ListBorrowRecordsInput) (*BorrowTableOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	recs, err := s.services.Admin.ListBorrowRecords(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.services.Admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	books, err := s.services.Admin.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	rows := joinRecordRows(recs, users, books)
	b := browse.New(recordColumns(), browse.RecordsPageSize, rows)
	applyTableQuery(b, input.TableQuery)

	out := tablePage(b, toRecordRowResponse)
	return &BorrowTableOutput{Body: out}, nil
}

// SetBorrowStatusRequest is the request body for a status change.
type SetBorrowStatusRequest struct {
	Status string `json:"status" enum:"PENDING,BORROWED,RETURNED" doc:"New status"`
}

// SetBorrowStatusInput wraps the status change for Huma.
type SetBorrowStatusInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Record ID"`
	Body          SetBorrowStatusRequest
}

// BorrowRecordOutput wraps a single borrow record response for Huma.
type BorrowRecordOutput struct {
	Body BorrowRecordResponse
}

func (s *Server) handleSetBorrowStatus(ctx context.Context, input *SetBorrowStatusInput) (*BorrowRecordOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	rec, err := s.services.Admin.SetBorrowStatus(ctx, input.ID, input.Body.Status)
	if err != nil {
		return nil, err
	}
	return &BorrowRecordOutput{Body: toBorrowRecordResponse(rec)}, nil
}

// BorrowRecordIDInput identifies one borrow record.
type BorrowRecordIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Record ID"`
}

func (s *Server) handleApproveBorrow(ctx context.Context, input *BorrowRecordIDInput) (*BorrowRecordOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	rec, err := s.services.Borrow.ApproveBorrow(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BorrowRecordOutput{Body: toBorrowRecordResponse(rec)}, nil
}

func (s *Server) handleReturnBook(ctx context.Context, input *BorrowRecordIDInput) (*BorrowRecordOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	rec, err := s.services.Borrow.ReturnBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BorrowRecordOutput{Body: toBorrowRecordResponse(rec)}, nil
}

// RequestBorrowInput identifies the book to borrow.
type RequestBorrowInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

func (s *Server) handleRequestBorrow(ctx context.Context, input *RequestBorrowInput) (*BorrowRecordOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	rec, err := s.services.Borrow.RequestBorrow(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}
	return &BorrowRecordOutput{Body: toBorrowRecordResponse(rec)}, nil
}

// BorrowRecordListResponse contains a member's own borrow records.
type BorrowRecordListResponse struct {
	Records []BorrowRecordResponse `json:"records" doc:"Borrow records, newest first"`
}

// BorrowRecordListOutput wraps the list for Huma.
type BorrowRecordListOutput struct {
	Body BorrowRecordListResponse
}

func (s *Server) handleListMyBorrowRecords(ctx context.Context, input *AuthorizedInput) (*BorrowRecordListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recs, err := s.services.Borrow.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	out := BorrowRecordListResponse{Records: make([]BorrowRecordResponse, 0, len(recs))}
	for _, rec := range recs {
		out.Records = append(out.Records, toBorrowRecordResponse(rec))
	}
	return &BorrowRecordListOutput{Body: out}, nil
}
