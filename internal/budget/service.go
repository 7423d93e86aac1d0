// Package budget implements every user command of biweekly on top of a
// store.Store: families, sign-in, entries, period views and backups.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/biweekly-dev/biweekly/internal/accounts"
	"github.com/biweekly-dev/biweekly/internal/activity"
	"github.com/biweekly-dev/biweekly/internal/auth"
	"github.com/biweekly-dev/biweekly/internal/backup"
	"github.com/biweekly-dev/biweekly/internal/id"
	"github.com/biweekly-dev/biweekly/internal/ledger"
	"github.com/biweekly-dev/biweekly/internal/logging"
	"github.com/biweekly-dev/biweekly/internal/model"
	"github.com/biweekly-dev/biweekly/internal/period"
	"github.com/biweekly-dev/biweekly/internal/store"
	"github.com/biweekly-dev/biweekly/internal/types"
)

// DefaultFamilyName is used when a family is created without a name.
const DefaultFamilyName = "Family Budget"

// codeAttempts bounds retries when a generated Family Code is already taken.
const codeAttempts = 10

// Service runs budget commands against a store.
type Service struct {
	st   *store.Store
	auth auth.Authenticator
	now  func() time.Time
	log  *slog.Logger
	rec  Recorder
	ids  id.Generator
}

// NewService returns a Service backed by st.
func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		st:   st,
		auth: auth.Plaintext{},
		now:  time.Now,
		log:  logging.Discard(),
		ids:  id.Random{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logging.FieldComponent, logging.ComponentBudget)
	return s
}

// directory is a lookup over the accounts stored right now.
func (s *Service) directory() *accounts.Service {
	return accounts.Load(s.st)
}

// Active is the signed-in account and its tracker.
type Active struct {
	Account model.Account
	Tracker model.Tracker
}

// CreateFamilyParams are the inputs to CreateFamily.
type CreateFamilyParams struct {
	Email      string
	Name       string
	Password   string
	FamilyName string
	// AnchorDate defaults to today.
	AnchorDate types.Date
}

// JoinFamilyParams are the inputs to JoinFamily.
type JoinFamilyParams struct {
	Email      string
	Name       string
	Password   string
	FamilyCode string
}

// EntryInput is a new entry as typed by a user. Amount is coerced with
// ledger.CoerceAmount, so any value is accepted. A zero Date means today.
type EntryInput struct {
	Date   types.Date
	Amount any
	Label  string
}

// Backup is an exported tracker and its suggested file name.
type Backup struct {
	Filename string
	Data     []byte
}

// Today returns the current date according to the service clock.
func (s *Service) Today() types.Date {
	return types.Today(s.now)
}

// CreateFamily creates a tracker and its first account, and signs in.
func (s *Service) CreateFamily(ctx context.Context, p CreateFamilyParams) (Active, error) {
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return Active{}, ErrEmailRequired
	}
	if s.directory().Exists(email) {
		return Active{}, fmt.Errorf("%w: %s", ErrAccountExists, email)
	}

	code, err := s.newFamilyCode()
	if err != nil {
		return Active{}, err
	}
	cred, err := s.auth.Enroll(p.Password)
	if err != nil {
		return Active{}, fmt.Errorf("enrolling password: %w", err)
	}

	anchor := p.AnchorDate
	if anchor.IsZero() {
		anchor = s.Today()
	}
	name := strings.TrimSpace(p.FamilyName)
	if name == "" {
		name = DefaultFamilyName
	}

	t := model.Tracker{ID: code, Name: name, AnchorDate: anchor, Members: []string{email}}
	a := model.Account{ID: email, Name: strings.TrimSpace(p.Name), Password: cred, TrackerID: code}

	if err := s.st.SaveTracker(ctx, t); err != nil {
		return Active{}, fmt.Errorf("saving family: %w", err)
	}
	if err := s.st.SaveAccount(ctx, a); err != nil {
		s.restoreTracker(ctx, t.ID, model.Tracker{}, false)
		return Active{}, fmt.Errorf("saving account: %w", err)
	}
	if err := s.signIn(ctx, a); err != nil {
		return Active{}, err
	}

	s.log.Info("family created", logging.FieldTracker, code, logging.FieldAccount, email)
	s.record(ctx, a.ID, activity.ActionCreateFamily, code, "", name)
	return Active{Account: a, Tracker: t}, nil
}

func (s *Service) newFamilyCode() (string, error) {
	for range codeAttempts {
		code, err := s.ids.FamilyCode()
		if err != nil {
			return "", err
		}
		if _, taken := s.st.Tracker(code); !taken {
			return code, nil
		}
	}
	return "", errors.New("could not find an unused family code")
}

// JoinFamily creates an account in an existing tracker and signs in.
func (s *Service) JoinFamily(ctx context.Context, p JoinFamilyParams) (Active, error) {
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return Active{}, ErrEmailRequired
	}
	if s.directory().Exists(email) {
		return Active{}, fmt.Errorf("%w: %s", ErrAccountExists, email)
	}
	code := id.NormalizeFamilyCode(p.FamilyCode)
	t, ok := s.st.Tracker(code)
	if !ok {
		return Active{}, fmt.Errorf("%w: %q", ErrUnknownFamilyCode, code)
	}

	cred, err := s.auth.Enroll(p.Password)
	if err != nil {
		return Active{}, fmt.Errorf("enrolling password: %w", err)
	}
	a := model.Account{ID: email, Name: strings.TrimSpace(p.Name), Password: cred, TrackerID: t.ID}

	prev := t.Clone()
	t.AddMember(email)
	if err := s.st.SaveTracker(ctx, t); err != nil {
		return Active{}, fmt.Errorf("saving family: %w", err)
	}
	if err := s.st.SaveAccount(ctx, a); err != nil {
		s.restoreTracker(ctx, t.ID, prev, true)
		return Active{}, fmt.Errorf("saving account: %w", err)
	}
	if err := s.signIn(ctx, a); err != nil {
		return Active{}, err
	}

	s.log.Info("family joined", logging.FieldTracker, t.ID, logging.FieldAccount, email)
	s.record(ctx, a.ID, activity.ActionJoinFamily, t.ID, "", "")
	return Active{Account: a, Tracker: t}, nil
}

func (s *Service) authenticate(email, password string) (model.Account, error) {
	a, ok := s.directory().Get(strings.TrimSpace(email))
	if !ok || !s.auth.Verify(a.Password, password) {
		return model.Account{}, ErrAuthFailed
	}
	return a, nil
}

// Login checks the password and signs in. If the account's tracker is
// missing, no session is set and ErrTrackerNotFound is returned.
func (s *Service) Login(ctx context.Context, email, password string) (Active, error) {
	a, err := s.authenticate(email, password)
	if err != nil {
		return Active{}, err
	}
	t, ok := s.st.Tracker(a.TrackerID)
	if !ok {
		return Active{}, fmt.Errorf("%w: %q", ErrTrackerNotFound, a.TrackerID)
	}
	if err := s.signIn(ctx, a); err != nil {
		return Active{}, err
	}

	s.log.Info("signed in", logging.FieldAccount, a.ID, logging.FieldTracker, t.ID)
	s.record(ctx, a.ID, activity.ActionLogin, t.ID, "", "")
	return Active{Account: a, Tracker: t}, nil
}

// Relink points an existing account at the tracker with code and signs in.
// It is the way out of ErrTrackerNotFound.
func (s *Service) Relink(ctx context.Context, email, password, code string) (Active, error) {
	a, err := s.authenticate(email, password)
	if err != nil {
		return Active{}, err
	}
	code = id.NormalizeFamilyCode(code)
	t, ok := s.st.Tracker(code)
	if !ok {
		return Active{}, fmt.Errorf("%w: %q", ErrUnknownFamilyCode, code)
	}

	prev := a.TrackerID
	before := t.Clone()
	a.TrackerID = t.ID
	t.AddMember(a.ID)
	if err := s.st.SaveTracker(ctx, t); err != nil {
		return Active{}, fmt.Errorf("saving family: %w", err)
	}
	if err := s.st.SaveAccount(ctx, a); err != nil {
		s.restoreTracker(ctx, t.ID, before, true)
		return Active{}, fmt.Errorf("saving account: %w", err)
	}
	if err := s.signIn(ctx, a); err != nil {
		return Active{}, err
	}

	s.log.Info("account relinked", logging.FieldAccount, a.ID, logging.FieldTracker, t.ID)
	s.record(ctx, a.ID, activity.ActionRelink, t.ID, "", "from "+prev)
	return Active{Account: a, Tracker: t}, nil
}

func (s *Service) signIn(ctx context.Context, a model.Account) error {
	if err := s.st.SetSession(ctx, model.Session{AccountID: a.ID, TrackerID: a.TrackerID}); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Logout clears the session. It is not an error to log out twice.
func (s *Service) Logout(ctx context.Context) error {
	sess, ok := s.st.Session()
	if !ok {
		return nil
	}
	if err := s.st.ClearSession(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.log.Info("signed out", logging.FieldAccount, sess.AccountID)
	s.record(ctx, sess.AccountID, activity.ActionLogout, sess.TrackerID, "", "")
	return nil
}

// Current returns the signed-in account and a copy of its tracker.
func (s *Service) Current(_ context.Context) (Active, error) {
	sess, ok := s.st.Session()
	if !ok {
		return Active{}, ErrNoSession
	}
	a, ok := s.directory().Get(sess.AccountID)
	if !ok {
		return Active{}, ErrNoSession
	}
	t, ok := s.st.Tracker(sess.TrackerID)
	if !ok {
		return Active{Account: a}, fmt.Errorf("%w: %q", ErrTrackerNotFound, sess.TrackerID)
	}
	return Active{Account: a, Tracker: t}, nil
}

// restoreTracker undoes a tracker write after a later write failed. When
// had is false the tracker did not exist before and is deleted.
func (s *Service) restoreTracker(ctx context.Context, trackerID string, prev model.Tracker, had bool) {
	var err error
	if had {
		err = s.st.SaveTracker(ctx, prev)
	} else {
		err = s.st.DeleteTracker(ctx, trackerID)
	}
	if err != nil {
		s.log.Error("restoring family after failed write", logging.FieldTracker, trackerID, logging.FieldError, err)
	}
}

// AddEntry appends an entry to category, stamped with the signed-in account.
func (s *Service) AddEntry(ctx context.Context, category model.Category, in EntryInput) (model.Entry, error) {
	added, err := s.AddEntries(ctx, []model.Draft{{
		Category: category,
		Date:     in.Date,
		Amount:   ledger.CoerceAmount(in.Amount),
		Label:    in.Label,
	}})
	if err != nil {
		return model.Entry{}, err
	}
	return added[0], nil
}

// AddEntries appends all drafts with a single write. Nothing is added if any
// draft has an unknown category.
func (s *Service) AddEntries(ctx context.Context, drafts []model.Draft) ([]model.Entry, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drafts {
		if !d.Category.Valid() {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownCategory, d.Category)
		}
	}
	if len(drafts) == 0 {
		return nil, nil
	}

	t := cur.Tracker
	today := s.Today()
	author := s.directory().DisplayName(cur.Account.ID)
	added := make([]model.Entry, 0, len(drafts))
	for _, d := range drafts {
		date := d.Date
		if date.IsZero() {
			date = today
		}
		e := model.Entry{
			ID:          s.ids.EntryID(),
			Date:        date,
			Amount:      d.Amount,
			AccountID:   cur.Account.ID,
			AccountName: author,
			Label:       strings.TrimSpace(d.Label),
		}
		t.SetEntries(d.Category, append(t.Entries(d.Category), e))
		added = append(added, e)
	}

	if err := s.st.SaveTracker(ctx, t); err != nil {
		return nil, fmt.Errorf("saving entries: %w", err)
	}

	for i, e := range added {
		c := drafts[i].Category
		s.log.Info("entry added", logging.FieldTracker, t.ID, logging.FieldCategory, c, logging.FieldEntryID, e.ID)
		s.record(ctx, cur.Account.ID, activity.ActionAddEntry, t.ID, e.ID,
			fmt.Sprintf("%s %s %s %s", c, e.Date, e.Amount.StringFixed(2), e.Label))
	}
	return added, nil
}

// DeleteEntry removes the entry with entryID from category. It reports
// false, with no error, if there was no such entry.
func (s *Service) DeleteEntry(ctx context.Context, category model.Category, entryID string) (bool, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return false, err
	}
	if !category.Valid() {
		return false, fmt.Errorf("%w: %q", model.ErrUnknownCategory, category)
	}

	t := cur.Tracker
	entries := t.Entries(category)
	kept := make([]model.Entry, 0, len(entries))
	var removed *model.Entry
	for i := range entries {
		if removed == nil && entries[i].ID == entryID {
			removed = &entries[i]
			continue
		}
		kept = append(kept, entries[i])
	}
	if removed == nil {
		return false, nil
	}

	t.SetEntries(category, kept)
	if err := s.st.SaveTracker(ctx, t); err != nil {
		return false, fmt.Errorf("saving entries: %w", err)
	}

	s.log.Info("entry deleted", logging.FieldTracker, t.ID, logging.FieldCategory, category, logging.FieldEntryID, entryID)
	s.record(ctx, cur.Account.ID, activity.ActionDeleteEntry, t.ID, entryID,
		fmt.Sprintf("%s %s %s %s", category, removed.Date, removed.Amount.StringFixed(2), removed.Label))
	return true, nil
}

// SetAnchorDate moves the payday anchor. Every entry is re-bucketed the next
// time a period is computed.
func (s *Service) SetAnchorDate(ctx context.Context, anchor types.Date) error {
	return s.updateTracker(ctx, activity.ActionSetAnchor, anchor.String(), func(t *model.Tracker) {
		t.AnchorDate = anchor
	})
}

// RenameTracker changes the family's display name.
func (s *Service) RenameTracker(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	return s.updateTracker(ctx, activity.ActionRename, name, func(t *model.Tracker) {
		t.Name = name
	})
}

func (s *Service) updateTracker(ctx context.Context, action, details string, fn func(*model.Tracker)) error {
	cur, err := s.Current(ctx)
	if err != nil {
		return err
	}
	t := cur.Tracker
	fn(&t)
	if err := s.st.SaveTracker(ctx, t); err != nil {
		return fmt.Errorf("saving family: %w", err)
	}
	s.log.Info("family updated", logging.FieldTracker, t.ID, logging.FieldAction, action)
	s.record(ctx, cur.Account.ID, action, t.ID, "", details)
	return nil
}

// View summarizes the period containing reference. A zero reference means today.
func (s *Service) View(ctx context.Context, reference types.Date) (ledger.Summary, error) {
	return s.ViewShifted(ctx, reference, 0)
}

// ViewShifted summarizes the period offset periods away from the one
// containing reference. Negative offsets go back in time.
func (s *Service) ViewShifted(ctx context.Context, reference types.Date, offset int) (ledger.Summary, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	if reference.IsZero() {
		reference = s.Today()
	}
	anchor := cur.Tracker.AnchorDate
	if anchor.IsZero() {
		anchor = s.Today()
	}
	p := period.Shift(period.Containing(reference, anchor), anchor, offset)
	return ledger.Summarize(cur.Tracker.Ledger, p), nil
}

// Members returns the accounts in the active tracker, in the order they joined.
func (s *Service) Members(ctx context.Context) ([]model.Account, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return accounts.Load(s.st).Members(cur.Tracker), nil
}

// Export returns the active tracker as a backup file.
func (s *Service) Export(ctx context.Context) (Backup, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return Backup{}, err
	}
	data, err := backup.Export(cur.Tracker)
	if err != nil {
		return Backup{}, err
	}
	return Backup{Filename: backup.Filename(cur.Tracker, s.now()), Data: data}, nil
}

// Import replaces the tracker with the backup's ID wholesale, makes the
// signed-in account a member of it and switches to it. A backup without an
// anchor date is anchored on today. A malformed backup changes nothing.
func (s *Service) Import(ctx context.Context, data []byte) (model.Tracker, error) {
	sess, ok := s.st.Session()
	if !ok {
		return model.Tracker{}, ErrNoSession
	}
	a, ok := s.directory().Get(sess.AccountID)
	if !ok {
		return model.Tracker{}, ErrNoSession
	}

	t, err := backup.Import(data)
	if err != nil {
		return model.Tracker{}, err
	}
	t.AddMember(a.ID)
	if t.AnchorDate.IsZero() {
		t.AnchorDate = s.Today()
	}

	prev, had := s.st.Tracker(t.ID)
	if err := s.st.SaveTracker(ctx, t); err != nil {
		return model.Tracker{}, fmt.Errorf("saving family: %w", err)
	}
	a.TrackerID = t.ID
	if err := s.st.SaveAccount(ctx, a); err != nil {
		s.restoreTracker(ctx, t.ID, prev, had)
		return model.Tracker{}, fmt.Errorf("saving account: %w", err)
	}
	if err := s.signIn(ctx, a); err != nil {
		return model.Tracker{}, err
	}

	s.log.Info("family imported", logging.FieldTracker, t.ID, logging.FieldAccount, a.ID, logging.FieldCount, t.Len())
	s.record(ctx, a.ID, activity.ActionImport, t.ID, "", fmt.Sprintf("%d entries", t.Len()))
	return t, nil
}

// record sends an activity entry to the recorder. A failure is logged, not
// returned, because the change it describes is already saved.
func (s *Service) record(ctx context.Context, account, action, tracker, entryID, details string) {
	if s.rec == nil {
		return
	}
	e := activity.Entry{
		Timestamp: s.now().UTC().Truncate(time.Second),
		Account:   account,
		Action:    action,
		Tracker:   tracker,
		EntryID:   entryID,
		Details:   details,
	}
	if err := s.rec.Record(ctx, e); err != nil {
		s.log.Warn("recording activity", logging.FieldError, err, logging.FieldAction, action)
	}
}
