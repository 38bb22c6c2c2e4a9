// Package file models uploaded attachments. Meetups reference them by
// opaque id only; nothing here validates that a referenced file exists.
package file

import (
	"context"
	"time"
)

type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store interface {
	CreateFile(ctx context.Context, f *File) error
}

// StoreError wraps a persistence failure from the attachment store.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store failure: " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
