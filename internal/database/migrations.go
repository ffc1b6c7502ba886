package database

import (
	"context"
	"fmt"
)

// migrations is an ordered list of idempotent statements. Table names come
// from configuration, so the statements are templates with a single %s (or
// more) for the configured names.
func (db *DB) migrations() []string {
	t := db.Tables
	return []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			current_team_id UUID,
			deleted_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`, t.Users),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			owner_id UUID REFERENCES %s(id) ON DELETE SET NULL,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`, t.Teams, t.Users),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			user_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE ON UPDATE CASCADE,
			team_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			meta JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			PRIMARY KEY (user_id, team_id)
		)`, t.TeamUser, t.Users, t.Teams),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			team_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			type VARCHAR(10) NOT NULL CHECK (type IN ('invite', 'request')),
			email VARCHAR(255) NOT NULL,
			accept_token VARCHAR(64) NOT NULL UNIQUE,
			deny_token VARCHAR(64) NOT NULL UNIQUE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`, t.TeamInvites, t.Teams),

		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			token_hash VARCHAR(255) NOT NULL UNIQUE,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			team_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			done BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`, t.Teams),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_team_id ON %[1]s(team_id)`, t.TeamUser),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_email ON %[1]s(email)`, t.TeamInvites),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_team_id ON %[1]s(team_id)`, t.TeamInvites),
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_team_id ON tasks(team_id)`,
	}
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range db.migrations() {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
