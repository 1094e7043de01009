package strokes

// postgres

const queryCreateStrokesTable = `
	CREATE TABLE IF NOT EXISTS room_strokes (
		id UUID PRIMARY KEY,
		room_id TEXT NOT NULL,
		prev_x DOUBLE PRECISION NOT NULL,
		prev_y DOUBLE PRECISION NOT NULL,
		cur_x DOUBLE PRECISION NOT NULL,
		cur_y DOUBLE PRECISION NOT NULL,
		color TEXT NOT NULL,
		width DOUBLE PRECISION NOT NULL,
		is_erasing BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		seq BIGINT NOT NULL
	)
`

const queryCreateStrokesIndex = `
	CREATE INDEX IF NOT EXISTS idx_room_strokes_replay
	ON room_strokes (room_id, created_at, seq)
`

const queryAppendStroke = `
	INSERT INTO room_strokes (id, room_id, prev_x, prev_y, cur_x, cur_y, color, width, is_erasing, created_at, seq)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO NOTHING
`

const queryListStrokesByRoom = `
	SELECT id, room_id, prev_x, prev_y, cur_x, cur_y, color, width, is_erasing, created_at, seq
	FROM room_strokes
	WHERE room_id = $1
	ORDER BY created_at ASC, seq ASC
`

const queryDeleteStrokesByRoom = `
	DELETE FROM room_strokes
	WHERE room_id = $1
`

const queryCountStrokesByRoom = `
	SELECT COUNT(*)
	FROM room_strokes
	WHERE room_id = $1
`

// sqlite

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS room_strokes (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		prev_x REAL NOT NULL,
		prev_y REAL NOT NULL,
		cur_x REAL NOT NULL,
		cur_y REAL NOT NULL,
		color TEXT NOT NULL,
		width REAL NOT NULL,
		is_erasing INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		seq INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_room_strokes_replay ON room_strokes(room_id, created_at, seq);
`

const sqliteAppendStroke = `
	INSERT OR IGNORE INTO room_strokes (id, room_id, prev_x, prev_y, cur_x, cur_y, color, width, is_erasing, created_at, seq)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const sqliteListStrokesByRoom = `
	SELECT id, room_id, prev_x, prev_y, cur_x, cur_y, color, width, is_erasing, created_at, seq
	FROM room_strokes
	WHERE room_id = ?
	ORDER BY created_at ASC, seq ASC
`

const sqliteDeleteStrokesByRoom = `DELETE FROM room_strokes WHERE room_id = ?`

const sqliteCountStrokesByRoom = `SELECT COUNT(*) FROM room_strokes WHERE room_id = ?`

// redis

const keyRoomStrokes = "room:%s:strokes"
