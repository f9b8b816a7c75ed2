package account

const (
	CreateAccountsTable = `
		CREATE TABLE IF NOT EXISTS accounts (
		  id                uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		  name              text NOT NULL,
		  email             text NOT NULL CONSTRAINT accounts_email_key UNIQUE,
		  phone             text NOT NULL CONSTRAINT accounts_phone_key UNIQUE,
		  password_hash     text NOT NULL,
		  profile_image_url text NOT NULL DEFAULT '',
		  account_type      text NOT NULL DEFAULT 'employee',
		  status            text NOT NULL DEFAULT 'active',
		  created_at        timestamptz NOT NULL DEFAULT now(),
		  updated_at        timestamptz NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS accounts_name_idx ON accounts (name);
		CREATE INDEX IF NOT EXISTS accounts_created_at_idx ON accounts (created_at DESC)
	`
	SelectAccountByID = `
		SELECT id, name, email, phone, password_hash, profile_image_url, account_type, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	SelectAccountByEmail = `
		SELECT id, name, email, phone, password_hash, profile_image_url, account_type, status, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	SelectAccountByEmailOrPhone = `
		SELECT id, name, email, phone, password_hash, profile_image_url, account_type, status, created_at, updated_at
		FROM accounts
		WHERE email = $1 OR phone = $2
		ORDER BY (email = $1) DESC
		LIMIT 1
	`
	InsertAccount = `
		INSERT INTO accounts (name, email, phone, password_hash, profile_image_url, account_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING
		  id, name, email, phone, password_hash, profile_image_url, account_type, status, created_at, updated_at
	`
	SelectAccounts = `
		SELECT id, name, email, phone, password_hash, profile_image_url, account_type, status, created_at, updated_at
		FROM accounts
		WHERE $1 = '' OR (account_type = $1 AND status <> 'deleted')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	SearchAccounts = `
		SELECT id, name, email, phone, password_hash, profile_image_url, account_type, status, created_at, updated_at
		FROM accounts
		WHERE status = 'active'
		  AND id::text <> $1
		  AND (name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	CountAccounts = `SELECT count(*) FROM accounts`
	UpdateProfile = `
		UPDATE accounts
		SET name = $1,
		    profile_image_url = $2,
		    updated_at = now()
		WHERE id = $3
		RETURNING
		  id, name, email, phone, password_hash, profile_image_url, account_type, status, created_at, updated_at
	`
	UpdatePassword = `
		UPDATE accounts
		SET password_hash = $1,
		    updated_at = now()
		WHERE id = $2
		RETURNING
		  id, name, email, phone, password_hash, profile_image_url, account_type, status, created_at, updated_at
	`
	UpdateStatus = `
		UPDATE accounts
		SET status = $1,
		    updated_at = now()
		WHERE id = $2
		RETURNING
		  id, name, email, phone, password_hash, profile_image_url, account_type, status, created_at, updated_at
	`
)
