package mysql

// TableScanSQL lists every column of every table and view in the current
// database. Same ordinal shape as the Postgres scan; schema is the MySQL
// database name. EXTRA holds DEFAULT_GENERATED for expression defaults such
// as CURRENT_TIMESTAMP; those columns stay updatable.
const TableScanSQL = `
	SELECT
		c.TABLE_SCHEMA,
		c.TABLE_NAME,
		CASE WHEN t.TABLE_TYPE = 'BASE TABLE' THEN 1 ELSE 0 END          AS kind,
		c.COLUMN_NAME,
		c.COLUMN_TYPE,
		CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END                AS is_nullable,
		CASE WHEN c.COLUMN_KEY = 'PRI' THEN 1 ELSE 0 END                 AS is_primary_key,
		CASE
			WHEN c.EXTRA LIKE '%auto_increment%' THEN 0
			WHEN c.EXTRA LIKE '%VIRTUAL GENERATED%' THEN 0
			WHEN c.EXTRA LIKE '%STORED GENERATED%'  THEN 0
			ELSE 1
		END                                                              AS is_updatable
	FROM information_schema.COLUMNS c
	JOIN information_schema.TABLES t
	  ON t.TABLE_SCHEMA = c.TABLE_SCHEMA
	 AND t.TABLE_NAME   = c.TABLE_NAME
	WHERE c.TABLE_SCHEMA = DATABASE()
	ORDER BY c.TABLE_SCHEMA, c.TABLE_NAME, c.ORDINAL_POSITION`

// FKScanSQL lists one row per foreign-key column pair in the current database.
// KEY_COLUMN_USAGE carries the referenced column on the same row, so
// composite keys are already paired by position.
const FKScanSQL = `
	SELECT
		kcu.TABLE_SCHEMA,
		kcu.TABLE_NAME,
		kcu.COLUMN_NAME,
		kcu.REFERENCED_TABLE_SCHEMA,
		kcu.REFERENCED_TABLE_NAME,
		kcu.REFERENCED_COLUMN_NAME
	FROM information_schema.KEY_COLUMN_USAGE kcu
	WHERE kcu.TABLE_SCHEMA = DATABASE()
	  AND kcu.REFERENCED_TABLE_NAME IS NOT NULL
	ORDER BY kcu.TABLE_NAME, kcu.CONSTRAINT_NAME, kcu.ORDINAL_POSITION`
