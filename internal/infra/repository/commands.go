package repository

import (
	"context"
	"sort"
	"time"

	"github.com/doug-martin/goqu/v9"

	"blib-backend/internal/domain/command"
	"blib-backend/internal/infra"
)

type CommandRepository struct {
	db DBTX
}

func NewCommandRepository(db DBTX) *CommandRepository {
	return &CommandRepository{db: db}
}

func (r *CommandRepository) Enqueue(ctx context.Context, cmd command.Command) error {
	query, args, err := dialect.Insert("commands").
		Rows(goqu.Record{
			"command_id": cmd.ID,
			"kind":       cmd.Kind,
			"payload":    cmd.Payload,
			"due_at":     cmd.DueAt,
			"dedup_key":  cmd.DedupKey,
		}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build command insert", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapErr("failed to enqueue command", err)
	}
	return nil
}

func (r *CommandRepository) Cancel(ctx context.Context, kind command.Kind, dedupKey string) error {
	query, args, err := dialect.Delete("commands").
		Where(goqu.Ex{"kind": kind, "dedup_key": dedupKey}).
		Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build command cancel", err, infra.KindDBFailure)
	}

	// Matching zero rows is fine; the command may already have executed.
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return wrapErr("failed to cancel command", err)
	}
	return nil
}

func (r *CommandRepository) Pending(ctx context.Context, kind command.Kind, dedupKey string) (bool, error) {
	query, args, err := dialect.From("commands").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"kind": kind, "dedup_key": dedupKey}).
		Prepared(true).ToSQL()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build pending command query", err, infra.KindDBFailure)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, wrapErr("failed to count pending commands", err)
	}
	return n > 0, nil
}

func (r *CommandRepository) PopDue(ctx context.Context, now time.Time) ([]command.Command, error) {
	query, args, err := dialect.Delete("commands").
		Where(goqu.I("due_at").Lt(now)).
		Returning("command_id", "kind", "payload", "due_at", "dedup_key").
		Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build command pop", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to pop due commands", err)
	}
	defer rows.Close()

	var cmds []command.Command
	for rows.Next() {
		var c command.Command
		if err := rows.Scan(&c.ID, &c.Kind, &c.Payload, &c.DueAt, &c.DedupKey); err != nil {
			return nil, wrapErr("failed to scan command row", err)
		}
		cmds = append(cmds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to read command rows", err)
	}

	// DELETE ... RETURNING has no row order guarantee.
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].DueAt.Before(cmds[j].DueAt) })
	return cmds, nil
}
