package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
const Schema = `
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    time TIMESTAMP NOT NULL,
    command TEXT NOT NULL,
    policy_name TEXT,
    policy_id INTEGER,
    version INTEGER,
    network TEXT,
    rule_id TEXT,
    detail TEXT,
    success BOOLEAN NOT NULL,
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_history_time ON history(time);
CREATE INDEX IF NOT EXISTS idx_history_policy_name ON history(policy_name);
CREATE INDEX IF NOT EXISTS idx_history_command ON history(command);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version, ignoring repeats.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?);`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version;`
