package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Схема для PostgreSQL
const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
    id              BIGSERIAL PRIMARY KEY,
    telegram_id     BIGINT NOT NULL UNIQUE,
    full_name       TEXT NOT NULL DEFAULT '',
    phone           TEXT NOT NULL DEFAULT '',
    address         TEXT NOT NULL DEFAULT '',
    is_admin        BOOLEAN NOT NULL DEFAULT FALSE,
    characteristics TEXT NOT NULL DEFAULT '',
    photo_path      TEXT
);

CREATE TABLE IF NOT EXISTS categories (
    id          BIGSERIAL PRIMARY KEY,
    name        VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
    id                BIGSERIAL PRIMARY KEY,
    name              TEXT NOT NULL,
    category_id       BIGINT NOT NULL REFERENCES categories(id),
    short_description TEXT NOT NULL DEFAULT '',
    price             DOUBLE PRECISION NOT NULL CHECK (price >= 0),
    unit              TEXT NOT NULL,
    quantity          DOUBLE PRECISION NOT NULL CHECK (quantity >= 0),
    is_available      BOOLEAN NOT NULL DEFAULT TRUE,
    payment_type      TEXT NOT NULL,
    cover_photo_path  TEXT,
    created_at        TIMESTAMP NOT NULL,
    updated_at        TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS product_photos (
    id          BIGSERIAL PRIMARY KEY,
    product_id  BIGINT NOT NULL REFERENCES products(id),
    photo_path  TEXT NOT NULL,
    is_main     BOOLEAN NOT NULL DEFAULT FALSE,
    order_index INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS orders (
    id               BIGSERIAL PRIMARY KEY,
    user_id          BIGINT NOT NULL REFERENCES users(id),
    product_id       BIGINT NOT NULL REFERENCES products(id),
    quantity         DOUBLE PRECISION,
    weight_grams     DOUBLE PRECISION,
    delivery_type    TEXT NOT NULL,
    delivery_address TEXT,
    created_at       TIMESTAMP NOT NULL,
    ready_at         TIMESTAMP,
    total_cost       DOUBLE PRECISION NOT NULL DEFAULT 0,
    payment_type     TEXT NOT NULL,
    payment_status   TEXT NOT NULL,
    admin_notes      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS order_status_events (
    id          BIGSERIAL PRIMARY KEY,
    order_id    BIGINT NOT NULL REFERENCES orders(id),
    status      TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL,
    admin_notes TEXT NOT NULL DEFAULT '',
    photo_path  TEXT
);

CREATE TABLE IF NOT EXISTS order_notes (
    id         BIGSERIAL PRIMARY KEY,
    order_id   BIGINT NOT NULL REFERENCES orders(id),
    user_id    BIGINT NOT NULL REFERENCES users(id),
    note_text  TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_lower ON categories (LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id);
CREATE INDEX IF NOT EXISTS idx_status_events_order ON order_status_events (order_id, created_at);
CREATE INDEX IF NOT EXISTS idx_order_notes_order ON order_notes (order_id, created_at);
`

// Схема для SQLite. Отличается только автоинкрементом первичных ключей.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    telegram_id     INTEGER NOT NULL UNIQUE,
    full_name       TEXT NOT NULL DEFAULT '',
    phone           TEXT NOT NULL DEFAULT '',
    address         TEXT NOT NULL DEFAULT '',
    is_admin        BOOLEAN NOT NULL DEFAULT FALSE,
    characteristics TEXT NOT NULL DEFAULT '',
    photo_path      TEXT
);

CREATE TABLE IF NOT EXISTS categories (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    name              TEXT NOT NULL,
    category_id       INTEGER NOT NULL REFERENCES categories(id),
    short_description TEXT NOT NULL DEFAULT '',
    price             REAL NOT NULL CHECK (price >= 0),
    unit              TEXT NOT NULL,
    quantity          REAL NOT NULL CHECK (quantity >= 0),
    is_available      BOOLEAN NOT NULL DEFAULT TRUE,
    payment_type      TEXT NOT NULL,
    cover_photo_path  TEXT,
    created_at        TIMESTAMP NOT NULL,
    updated_at        TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS product_photos (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    product_id  INTEGER NOT NULL REFERENCES products(id),
    photo_path  TEXT NOT NULL,
    is_main     BOOLEAN NOT NULL DEFAULT FALSE,
    order_index INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS orders (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id          INTEGER NOT NULL REFERENCES users(id),
    product_id       INTEGER NOT NULL REFERENCES products(id),
    quantity         REAL,
    weight_grams     REAL,
    delivery_type    TEXT NOT NULL,
    delivery_address TEXT,
    created_at       TIMESTAMP NOT NULL,
    ready_at         TIMESTAMP,
    total_cost       REAL NOT NULL DEFAULT 0,
    payment_type     TEXT NOT NULL,
    payment_status   TEXT NOT NULL,
    admin_notes      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS order_status_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    INTEGER NOT NULL REFERENCES orders(id),
    status      TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL,
    admin_notes TEXT NOT NULL DEFAULT '',
    photo_path  TEXT
);

CREATE TABLE IF NOT EXISTS order_notes (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id   INTEGER NOT NULL REFERENCES orders(id),
    user_id    INTEGER NOT NULL REFERENCES users(id),
    note_text  TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_lower ON categories (LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id);
CREATE INDEX IF NOT EXISTS idx_status_events_order ON order_status_events (order_id, created_at);
CREATE INDEX IF NOT EXISTS idx_order_notes_order ON order_notes (order_id, created_at);
`

// Migrate приводит схему базы к актуальному виду. Безопасно вызывать повторно.
func Migrate(db *sqlx.DB, driver string) error {
	var schema string
	switch driver {
	case "postgres":
		schema = schemaPostgres
	case "sqlite":
		schema = schemaSQLite
	default:
		return fmt.Errorf("неизвестный драйвер базы данных: %q", driver)
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("не удалось выполнить миграцию схемы: %w", err)
	}
	return nil
}
