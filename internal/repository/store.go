package repository

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
)

// store keeps one entity collection in memory and mirrors it to a CSV file.
// Every mutation rewrites the full collection. Load-time decode failures skip
// the offending row; the rest of the collection loads normally.
type store[T any] struct {
	mu     sync.RWMutex
	items  map[string]T
	file   *csvFile
	log    *zap.Logger
	encode func(T) []string
	decode func(row []string) (T, error)
}

func newStore[T any](dir, name string, header []string, log *zap.Logger, encode func(T) []string, decode func([]string) (T, error)) (*store[T], error) {
	file, err := newCSVFile(dir, name, header, log)
	if err != nil {
		return nil, err
	}
	s := &store[T]{
		items:  make(map[string]T),
		file:   file,
		log:    log,
		encode: encode,
		decode: decode,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *store[T]) load() error {
	rows, err := s.file.readAll()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		item, err := s.decode(row)
		if err != nil {
			s.log.Warn("skipping malformed record",
				zap.String("file", s.file.path),
				zap.Strings("row", row),
				zap.Error(err))
			continue
		}
		s.items[row[0]] = item
	}
	return nil
}

func (s *store[T]) save(id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
	return s.persistLocked()
}

func (s *store[T]) deleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	return s.persistLocked()
}

func (s *store[T]) findByID(id string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return &item, nil
}

func (s *store[T]) exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

func (s *store[T]) findAll() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]T, 0, len(s.items))
	for _, id := range sortedIDs(s.items) {
		all = append(all, s.items[id])
	}
	return all
}

func (s *store[T]) findFirst(match func(T) bool) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range sortedIDs(s.items) {
		if item := s.items[id]; match(item) {
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *store[T]) filter(match func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []T
	for _, id := range sortedIDs(s.items) {
		if item := s.items[id]; match(item) {
			out = append(out, item)
		}
	}
	return out
}

// appendOne adds the record in memory and appends a single row to the file
// instead of rewriting it.
func (s *store[T]) appendOne(id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
	return s.file.appendRow(s.encode(item))
}

func (s *store[T]) persistLocked() error {
	rows := make([][]string, 0, len(s.items))
	for _, id := range sortedIDs(s.items) {
		rows = append(rows, s.encode(s.items[id]))
	}
	return s.file.writeAll(rows)
}
