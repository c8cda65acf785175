// Package store keeps the imported attendance records in process memory.
// The collection is the single shared mutable resource of the service:
// import jobs append to it from their own goroutines and every mutation is
// serialized behind one mutex, so interleaved multi-file imports stay safe
// while completion order across files remains unspecified.
package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/payroll"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
)

// ReportAll is the sentinel report filter matching every record.
const ReportAll = "TODOS"

// Store is the in-memory attendance collection plus the validation errors
// and loaded-file bookkeeping produced by imports.
type Store struct {
	mu         sync.RWMutex
	records    []*models.AttendanceRecord
	files      []string
	errors     map[string]string
	fileErrors map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		errors:     make(map[string]string),
		fileErrors: make(map[string]string),
	}
}

// Append adds one file's import results: validated records, the loaded
// file name and the per-row validation failures. A successful import
// clears any file-level error left by an earlier failed attempt.
func (s *Store) Append(file string, records []*models.AttendanceRecord, errs []models.ValidationError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, records...)
	s.files = append(s.files, file)
	for _, e := range errs {
		s.errors[e.Key] = e.Message
	}
	delete(s.fileErrors, file)
}

// RecordFileError notes that a file's import failed before producing any
// records. The latest failure per file wins.
func (s *Store) RecordFileError(file, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileErrors[file] = message
}

// FileErrors returns the recorded whole-file failures sorted by name.
func (s *Store) FileErrors() []models.FileError {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FileError, 0, len(s.fileErrors))
	for file, msg := range s.fileErrors {
		out = append(out, models.FileError{File: file, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// List returns copies of the records matching the filter, newest last, plus
// the total match count. PageSize <= 0 disables pagination.
func (s *Store) List(filter models.AttendanceFilter) ([]models.AttendanceRecord, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.AttendanceRecord, 0, len(s.records))
	for _, rec := range s.records {
		if matches(rec, filter) {
			matched = append(matched, cloneRecord(rec))
		}
	}
	total := len(matched)

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= total {
			return []models.AttendanceRecord{}, total
		}
		end := start + filter.PageSize
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}
	return matched, total
}

// Reports returns the distinct report names in first-seen order.
func (s *Store) Reports() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	reports := make([]string, 0)
	for _, rec := range s.records {
		if _, ok := seen[rec.ReportName]; ok {
			continue
		}
		seen[rec.ReportName] = struct{}{}
		reports = append(reports, rec.ReportName)
	}
	return reports
}

// Files returns the loaded source files in import-completion order.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.files))
	copy(out, s.files)
	return out
}

// ValidationErrors returns the recorded row failures sorted by key.
func (s *Store) ValidationErrors() []models.ValidationError {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ValidationError, 0, len(s.errors))
	for key, msg := range s.errors {
		out = append(out, models.ValidationError{Key: key, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ClearValidationError dismisses a single recorded failure.
func (s *Store) ClearValidationError(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.errors[key]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "validation error not found")
	}
	delete(s.errors, key)
	return nil
}

// ClearValidationErrors dismisses every recorded failure.
func (s *Store) ClearValidationErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = make(map[string]string)
}

// EditDay rewrites one day's code on every record with the given employee
// code. Edits broadcast across source files: duplicate codes from separate
// imports are updated identically. Counters and payroll figures follow
// atomically. Returns the number of records updated.
func (s *Store) EditDay(code string, day int, value models.DayCode, lateDiscount float64) (int, error) {
	return s.broadcast(code, lateDiscount, func(rec *models.AttendanceRecord) {
		rec.ApplyDayCode(day, value)
	})
}

// EditContract switches the contract type. Moving to receipts clears the
// pension; moving to payroll assigns the configured default plan.
func (s *Store) EditContract(code string, contract models.ContractType, defaultPlan models.PensionPlan, lateDiscount float64) (int, error) {
	return s.broadcast(code, lateDiscount, func(rec *models.AttendanceRecord) {
		rec.ContractType = contract
		if contract == models.ContractReceipts {
			rec.Pension = models.PensionNone
		} else {
			rec.Pension = defaultPlan
		}
	})
}

// EditPension updates the pension plan; records on a receipts contract are
// left untouched.
func (s *Store) EditPension(code string, plan models.PensionPlan, lateDiscount float64) (int, error) {
	return s.broadcast(code, lateDiscount, func(rec *models.AttendanceRecord) {
		if rec.ContractType != models.ContractPayroll {
			return
		}
		rec.Pension = plan
	})
}

// EditBonus sets the manual bonus amount.
func (s *Store) EditBonus(code string, amount float64, lateDiscount float64) (int, error) {
	return s.broadcast(code, lateDiscount, func(rec *models.AttendanceRecord) {
		rec.Bonus = amount
	})
}

// RemoveFile deletes every record imported from the file and purges the
// file's recorded failure plus any validation error whose message
// references the file name. Returns the number of records removed.
func (s *Store) RemoveFile(file string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	removed := 0
	for _, rec := range s.records {
		if rec.SourceFile == file {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	_, failed := s.fileErrors[file]
	if removed == 0 && !containsString(s.files, file) && !failed {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "file not loaded")
	}
	s.records = kept
	delete(s.fileErrors, file)

	files := s.files[:0]
	for _, f := range s.files {
		if f != file {
			files = append(files, f)
		}
	}
	s.files = files

	for key, msg := range s.errors {
		if strings.Contains(msg, file) {
			delete(s.errors, key)
		}
	}
	return removed, nil
}

func (s *Store) broadcast(code string, lateDiscount float64, mutate func(*models.AttendanceRecord)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, rec := range s.records {
		if rec.Code != code {
			continue
		}
		mutate(rec)
		payroll.Apply(rec, lateDiscount)
		updated++
	}
	if updated == 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "employee code not found")
	}
	return updated, nil
}

func matches(rec *models.AttendanceRecord, filter models.AttendanceFilter) bool {
	if filter.Report != "" && filter.Report != ReportAll && rec.ReportName != filter.Report {
		return false
	}
	if filter.Search == "" {
		return true
	}
	needle := strings.ToLower(filter.Search)
	for _, field := range []string{rec.Code, rec.FullName, rec.NationalID, rec.Occupation, rec.Company, rec.BusinessLine} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func cloneRecord(rec *models.AttendanceRecord) models.AttendanceRecord {
	clone := *rec
	clone.Days = make(map[int]models.DayCode, len(rec.Days))
	for day, code := range rec.Days {
		clone.Days[day] = code
	}
	return clone
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
