package repository

const (
	GetWalletByUserIDQuery = `
        SELECT id, user_id, address, balance, version, created_at, updated_at
        FROM wallets
        WHERE user_id = $1
    `

	GetWalletByAddressQuery = `
        SELECT id, user_id, address, balance, version, created_at, updated_at
        FROM wallets
        WHERE address = $1
    `

	GetWalletByUserIDForUpdateQuery = `
        SELECT id, user_id, address, balance, version, created_at, updated_at
        FROM wallets
        WHERE user_id = $1
        FOR UPDATE
    `

	GetWalletByAddressForUpdateQuery = `
        SELECT id, user_id, address, balance, version, created_at, updated_at
        FROM wallets
        WHERE address = $1
        FOR UPDATE
    `

	CreateWalletQuery = `
        INSERT INTO wallets (id, user_id, address, balance, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING created_at, updated_at
    `

	UpdateWalletBalanceQuery = `
        UPDATE wallets
        SET
            balance = $1,
            version = $2 + 1,
            updated_at = NOW()
        WHERE id = $3
          AND version = $2
        RETURNING version, updated_at
    `

	GetTransactionByIdempotencyKeyQuery = `
        SELECT id, from_address, to_address, amount, status, idempotency_key, error_message, created_at
        FROM transactions
        WHERE idempotency_key = $1
    `

	CreateTransactionQuery = `
        INSERT INTO transactions (id, from_address, to_address, amount, status, idempotency_key, error_message, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING created_at
    `

	ListTransactionsByAddressQuery = `
        SELECT id, from_address, to_address, amount, status, idempotency_key, error_message, created_at
        FROM transactions
        WHERE from_address = $1 OR to_address = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
)
