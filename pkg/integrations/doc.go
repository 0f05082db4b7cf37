// Package integrations stores third-party OAuth tokens for connected email
// providers. Tokens pass through the vault on every write and read, so the
// database only ever holds authenticated ciphertext.
//
// The expected schema:
//
//	CREATE TABLE integration_tokens (
//	    account_id       UUID NOT NULL REFERENCES accounts(id),
//	    provider         TEXT NOT NULL,
//	    token_ciphertext TEXT NOT NULL,
//	    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    PRIMARY KEY (account_id, provider)
//	);
package integrations
