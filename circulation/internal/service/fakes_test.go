package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/kafka"
)

// fakeStore is an in-memory Repository with the same conditional-update
// semantics the Postgres queries have. All mutations take the one lock, so
// every ClaimCopy/ResolveHold/PromoteHold is atomic exactly like a single
// UPDATE ... WHERE status = $expected.
type fakeStore struct {
	mu sync.Mutex

	books  []*model.Book
	copies []*model.Copy
	loans  []*model.Loan
	holds  []*model.Hold

	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) id() int {
	id := f.nextID
	f.nextID++
	return id
}

// seedBook registers a book with n copies already on the shelf.
func (f *fakeStore) seedBook(isbn string, n int) *model.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	book := &model.Book{
		ID:      f.id(),
		BookUid: uuid.NewString(),
		Title:   "t-" + isbn,
		Author:  "a-" + isbn,
		ISBN:    isbn,
	}
	f.books = append(f.books, book)
	for i := 0; i < n; i++ {
		f.copies = append(f.copies, &model.Copy{
			ID:      f.id(),
			CopyUid: uuid.NewString(),
			BookID:  book.ID,
			BookUid: book.BookUid,
			Barcode: uuid.NewString(),
			Status:  model.CopyAvailable,
		})
	}
	book.TotalCopies = n
	book.AvailableCopies = n
	return book
}

func (f *fakeStore) bookByID(id int) *model.Book {
	for _, b := range f.books {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *fakeStore) copyByID(id int) *model.Copy {
	for _, c := range f.copies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeStore) copyStatus(id int) model.CopyStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copyByID(id).Status
}

func (f *fakeStore) holdByUid(uid string) *model.Hold {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holds {
		if h.HoldUid == uid {
			return h
		}
	}
	return nil
}

// Catalog

func (f *fakeStore) GetBook(_ context.Context, bookUid string) (model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.BookUid == bookUid {
			return *b, nil
		}
	}
	return model.Book{}, errs.ErrBookNotFound
}

func (f *fakeStore) ListBooks(_ context.Context, page, size int) (model.ListBooks, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := model.ListBooks{Paging: model.Paging{Page: page, PageSize: size, TotalElements: len(f.books)}}
	for _, b := range f.books {
		out.Items = append(out.Items, *b)
	}
	return out, nil
}

func (f *fakeStore) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	book.ID = f.id()
	book.BookUid = uuid.NewString()
	f.books = append(f.books, &book)
	return book, nil
}

func (f *fakeStore) BookIDs(_ context.Context) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0, len(f.books))
	for _, b := range f.books {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (f *fakeStore) RecomputeCounts(_ context.Context, bookID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	book := f.bookByID(bookID)
	if book == nil {
		return errs.ErrBookNotFound
	}
	var total, available int
	for _, c := range f.copies {
		if c.BookID != bookID {
			continue
		}
		total++
		if c.Status == model.CopyAvailable {
			available++
		}
	}
	book.TotalCopies = total
	book.AvailableCopies = available
	return nil
}

func (f *fakeStore) AddCopy(_ context.Context, bookID int, barcode string) (model.Copy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &model.Copy{
		ID:      f.id(),
		CopyUid: uuid.NewString(),
		BookID:  bookID,
		Barcode: barcode,
		Status:  model.CopyProcessing,
	}
	f.copies = append(f.copies, c)
	return *c, nil
}

func (f *fakeStore) GetCopy(_ context.Context, copyUid string) (model.Copy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.copies {
		if c.CopyUid == copyUid {
			return *c, nil
		}
	}
	return model.Copy{}, errs.ErrCopyNotFound
}

func (f *fakeStore) GetCopyByID(_ context.Context, id int) (model.Copy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c := f.copyByID(id); c != nil {
		return *c, nil
	}
	return model.Copy{}, errs.ErrCopyNotFound
}

func (f *fakeStore) ListCopies(_ context.Context, bookID int) ([]model.Copy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Copy
	for _, c := range f.copies {
		if c.BookID == bookID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) NextAvailableCopy(_ context.Context, bookID int) (model.Copy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.copies {
		if c.BookID == bookID && c.Status == model.CopyAvailable {
			return *c, nil
		}
	}
	return model.Copy{}, errs.ErrNoCopyAvailable
}

func (f *fakeStore) ClaimCopy(_ context.Context, copyID int, from, to model.CopyStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.copyByID(copyID)
	if c == nil || c.Status != from {
		return false, nil
	}
	c.Status = to
	return true, nil
}

// LoanLedger

func (f *fakeStore) CreateLoan(_ context.Context, loan model.Loan) (model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.loans {
		if l.CopyID == loan.CopyID && l.Open() {
			// mirrors the partial unique index on open loans per copy
			return model.Loan{}, errors.New("duplicate open loan for copy")
		}
	}
	loan.ID = f.id()
	loan.LoanUid = uuid.NewString()
	loan.Status = model.LoanBorrowed
	f.loans = append(f.loans, &loan)
	return loan, nil
}

func (f *fakeStore) GetLoan(_ context.Context, loanUid string) (model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.loans {
		if l.LoanUid == loanUid {
			return *l, nil
		}
	}
	return model.Loan{}, errs.ErrLoanNotFound
}

func (f *fakeStore) openLoans(match func(*model.Loan) bool) []model.Loan {
	var out []model.Loan
	for _, l := range f.loans {
		if l.Open() && match(l) {
			out = append(out, *l)
		}
	}
	return out
}

func (f *fakeStore) OpenLoansByLoanUid(_ context.Context, loanUid string) ([]model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openLoans(func(l *model.Loan) bool { return l.LoanUid == loanUid }), nil
}

func (f *fakeStore) OpenLoansByBarcode(_ context.Context, barcode string) ([]model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openLoans(func(l *model.Loan) bool {
		c := f.copyByID(l.CopyID)
		return c != nil && c.Barcode == barcode
	}), nil
}

func (f *fakeStore) OpenLoansByBorrower(_ context.Context, borrowerID string) ([]model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openLoans(func(l *model.Loan) bool { return l.BorrowerID == borrowerID }), nil
}

func (f *fakeStore) OpenLoansByISBN(_ context.Context, isbn string) ([]model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openLoans(func(l *model.Loan) bool {
		b := f.bookByID(l.BookID)
		return b != nil && b.ISBN == isbn
	}), nil
}

func (f *fakeStore) ListLoansByBorrower(_ context.Context, borrowerID string) ([]model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Loan
	for _, l := range f.loans {
		if l.BorrowerID == borrowerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeStore) CloseLoan(_ context.Context, loanID int, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.loans {
		if l.ID == loanID && l.Open() {
			l.Status = model.LoanReturned
			t := at
			l.ReturnedAt = &t
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CloseLoanByCopy(_ context.Context, copyID int, at time.Time) (model.Loan, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.loans {
		if l.CopyID == copyID && l.Open() {
			l.Status = model.LoanReturned
			t := at
			l.ReturnedAt = &t
			return *l, true, nil
		}
	}
	return model.Loan{}, false, nil
}

func (f *fakeStore) RenewLoan(_ context.Context, loanID int, extend time.Duration, maxRenewals int) (model.Loan, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.loans {
		if l.ID == loanID && l.Status == model.LoanBorrowed && l.RenewalCount < maxRenewals {
			l.DueAt = l.DueAt.Add(extend)
			l.RenewalCount++
			return *l, true, nil
		}
	}
	return model.Loan{}, false, nil
}

func (f *fakeStore) MarkOverdue(_ context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int
	for _, l := range f.loans {
		if l.Status == model.LoanBorrowed && l.DueAt.Before(now) {
			l.Status = model.LoanOverdue
			n++
		}
	}
	return n, nil
}

// HoldQueue

func (f *fakeStore) CreateHold(_ context.Context, bookID int, patronID string) (model.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holds {
		if h.BookID == bookID && h.PatronID == patronID && !h.Status.Terminal() {
			// mirrors the partial unique index on live holds
			return model.Hold{}, errs.ErrDuplicateHold
		}
	}
	book := f.bookByID(bookID)
	if book == nil {
		return model.Hold{}, errs.ErrBookNotFound
	}
	h := &model.Hold{
		ID:       f.id(),
		HoldUid:  uuid.NewString(),
		BookID:   bookID,
		BookUid:  book.BookUid,
		PatronID: patronID,
		Status:   model.HoldQueued,
		PlacedAt: time.Now().UTC(),
	}
	f.holds = append(f.holds, h)
	return *h, nil
}

func (f *fakeStore) GetHold(_ context.Context, holdUid string) (model.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holds {
		if h.HoldUid == holdUid {
			return *h, nil
		}
	}
	return model.Hold{}, errs.ErrHoldNotFound
}

func (f *fakeStore) ReadyHoldForPatron(_ context.Context, bookID int, patronID string) (model.Hold, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holds {
		if h.BookID == bookID && h.PatronID == patronID && h.Status == model.HoldReady {
			return *h, true, nil
		}
	}
	return model.Hold{}, false, nil
}

func (f *fakeStore) OldestQueued(_ context.Context, bookID int) (model.Hold, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var queued []*model.Hold
	for _, h := range f.holds {
		if h.BookID == bookID && h.Status == model.HoldQueued {
			queued = append(queued, h)
		}
	}
	if len(queued) == 0 {
		return model.Hold{}, false, nil
	}
	sort.Slice(queued, func(i, j int) bool {
		if queued[i].PlacedAt.Equal(queued[j].PlacedAt) {
			return queued[i].ID < queued[j].ID
		}
		return queued[i].PlacedAt.Before(queued[j].PlacedAt)
	})
	return *queued[0], true, nil
}

func (f *fakeStore) HasQueued(_ context.Context, bookID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holds {
		if h.BookID == bookID && h.Status == model.HoldQueued {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) PromoteHold(_ context.Context, holdID, copyID int, readyAt, expiresAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holds {
		if h.ID == holdID && h.Status == model.HoldQueued {
			h.Status = model.HoldReady
			id := copyID
			h.CopyID = &id
			r, e := readyAt, expiresAt
			h.ReadyAt = &r
			h.ExpiresAt = &e
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ResolveHold(_ context.Context, holdID int, from, to model.HoldStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holds {
		if h.ID == holdID && h.Status == from {
			h.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ExpiredReady(_ context.Context, now time.Time) ([]model.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Hold
	for _, h := range f.holds {
		if h.Status == model.HoldReady && h.ExpiresAt != nil && h.ExpiresAt.Before(now) {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeStore) ListHoldsByPatron(_ context.Context, patronID string) ([]model.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Hold
	for _, h := range f.holds {
		if h.PatronID == patronID {
			out = append(out, *h)
		}
	}
	return out, nil
}

// holdHookStore lets a test interleave a concurrent resolution between the
// hold read and the conditional update that follows it.
type holdHookStore struct {
	*fakeStore
	afterGetHold func()
}

func (h *holdHookStore) GetHold(ctx context.Context, holdUid string) (model.Hold, error) {
	hold, err := h.fakeStore.GetHold(ctx, holdUid)
	if err == nil && h.afterGetHold != nil {
		h.afterGetHold()
	}
	return hold, err
}

// failingLoanStore rejects loan inserts to exercise the checkout rollback.
type failingLoanStore struct {
	*fakeStore
	failCreate bool
}

func (f *failingLoanStore) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	if f.failCreate {
		return model.Loan{}, errors.New("insert failed")
	}
	return f.fakeStore.CreateLoan(ctx, loan)
}

// nopSink swallows audit events; recordingSink keeps them for assertions.
type nopSink struct{}

func (nopSink) Record(context.Context, kafka.AuditEvent) {}

type recordingSink struct {
	mu     sync.Mutex
	events []kafka.AuditEvent
}

func (s *recordingSink) Record(_ context.Context, event kafka.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) byType(eventType string) []kafka.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []kafka.AuditEvent
	for _, e := range s.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}
