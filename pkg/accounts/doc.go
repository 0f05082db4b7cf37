// Package accounts owns customer account records and their plan tier.
//
// Each account maps to exactly one identity-provider subject and is
// immutable for the duration of a request once loaded. The plan tier
// is a closed set (free, owner); unrecognized tier names are preserved for
// display but receive free-tier semantics everywhere, see Tier.
//
// The expected schema:
//
//	CREATE TABLE accounts (
//	    id          UUID PRIMARY KEY,
//	    subject     TEXT NOT NULL UNIQUE,
//	    email       TEXT NOT NULL,
//	    plan        TEXT NOT NULL DEFAULT 'free',
//	    daily_limit INTEGER,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
package accounts
