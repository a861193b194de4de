package store

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS lectures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id INTEGER NOT NULL,
		day_of_week TEXT NOT NULL,
		number_per_day INTEGER NOT NULL,
		FOREIGN KEY (subject_id) REFERENCES subjects(id)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		subject_id INTEGER NOT NULL,
		lecture_number INTEGER NOT NULL,
		status TEXT NOT NULL,
		FOREIGN KEY (subject_id) REFERENCES subjects(id),
		UNIQUE (date, subject_id, lecture_number)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		verified INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE IF NOT EXISTS otps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		code TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS lectures (
		id BIGSERIAL PRIMARY KEY,
		subject_id BIGINT NOT NULL REFERENCES subjects(id),
		day_of_week TEXT NOT NULL,
		number_per_day INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id BIGSERIAL PRIMARY KEY,
		date TEXT NOT NULL,
		subject_id BIGINT NOT NULL REFERENCES subjects(id),
		lecture_number INT NOT NULL,
		status TEXT NOT NULL,
		UNIQUE (date, subject_id, lecture_number)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS otps (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		code TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
}
