package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/hitalo07/bootcamp-gostack-meetapp/meetup"
	"github.com/hitalo07/bootcamp-gostack-meetapp/user"
)

// MeetupStore persists meetups. It holds no lifecycle rules.
type MeetupStore struct {
	DB *DB
}

func (s *MeetupStore) CreateMeetup(ctx context.Context, m *meetup.Meetup) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return &meetup.StoreError{Err: err}
	}
	defer tx.Rollback(ctx)

	m.ID = uuid.New().String()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = tx.now
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO meetups (id, title, description, location, date, owner_id, attachment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		m.ID,
		m.Title,
		m.Description,
		m.Location,
		m.Date,
		m.OwnerID,
		m.AttachmentID,
		m.CreatedAt,
	)
	if err != nil {
		return &meetup.StoreError{Err: err}
	}

	return commit(ctx, tx)
}

func (s *MeetupStore) FindMeetupByID(ctx context.Context, id string) (*meetup.Meetup, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, &meetup.StoreError{Err: err}
	}
	defer tx.Rollback(ctx)

	return findMeetup(ctx, tx, id)
}

func (s *MeetupStore) ListMeetups(ctx context.Context, filter meetup.ListFilter) ([]*meetup.Meetup, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, &meetup.StoreError{Err: err}
	}
	defer tx.Rollback(ctx)

	where := ""
	args := []interface{}{}
	if filter.From != nil && filter.To != nil {
		where = "WHERE m.date BETWEEN $1 AND $2"
		args = append(args, *filter.From, *filter.To)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, meetup.PerPage, meetup.PerPage*(page-1))

	rows, err := tx.Query(ctx, fmt.Sprintf(`
		SELECT m.id, m.title, m.description, m.location, m.date, m.owner_id, m.attachment_id, m.created_at,
		       u.id, u.name, u.email, u.created_at
		FROM meetups m
		JOIN users u ON u.id = m.owner_id
		%s
		ORDER BY m.date, m.id
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, &meetup.StoreError{Err: err}
	}
	defer rows.Close()

	meetups := make([]*meetup.Meetup, 0)
	for rows.Next() {
		m := &meetup.Meetup{Owner: &user.User{}}
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Description,
			&m.Location,
			&m.Date,
			&m.OwnerID,
			&m.AttachmentID,
			&m.CreatedAt,
			&m.Owner.ID,
			&m.Owner.Name,
			&m.Owner.Email,
			&m.Owner.CreatedAt,
		); err != nil {
			return nil, &meetup.StoreError{Err: err}
		}
		meetups = append(meetups, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &meetup.StoreError{Err: err}
	}

	return meetups, nil
}

func (s *MeetupStore) UpdateMeetup(ctx context.Context, id string, in meetup.UpdateMeetupInput) (*meetup.Meetup, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, &meetup.StoreError{Err: err}
	}
	defer tx.Rollback(ctx)

	set := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Title != nil {
		add("title", *in.Title)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Location != nil {
		add("location", *in.Location)
	}
	if in.Date != nil {
		add("date", *in.Date)
	}
	if in.AttachmentID != nil {
		add("attachment_id", *in.AttachmentID)
	}

	if len(set) == 0 {
		return findMeetup(ctx, tx, id)
	}

	args = append(args, id)
	tag, err := tx.Exec(ctx, fmt.Sprintf(
		`UPDATE meetups SET %s WHERE id = $%d`,
		strings.Join(set, ", "), len(args),
	), args...)
	if err != nil {
		return nil, &meetup.StoreError{Err: err}
	}
	if tag.RowsAffected() == 0 {
		return nil, meetup.ErrNotFound
	}

	m, err := findMeetup(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := commit(ctx, tx); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *MeetupStore) DeleteMeetup(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return &meetup.StoreError{Err: err}
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM meetups WHERE id = $1`, id)
	if err != nil {
		return &meetup.StoreError{Err: err}
	}
	if tag.RowsAffected() == 0 {
		return meetup.ErrNotFound
	}

	return commit(ctx, tx)
}

func findMeetup(ctx context.Context, tx *Tx, id string) (*meetup.Meetup, error) {
	m := &meetup.Meetup{}

	err := tx.QueryRow(ctx, `
		SELECT id, title, description, location, date, owner_id, attachment_id, created_at
		FROM meetups
		WHERE id = $1
	`, id).Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Location,
		&m.Date,
		&m.OwnerID,
		&m.AttachmentID,
		&m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, meetup.ErrNotFound
	}
	if err != nil {
		return nil, &meetup.StoreError{Err: err}
	}

	return m, nil
}

func commit(ctx context.Context, tx *Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return &meetup.StoreError{Err: err}
	}
	return nil
}
