package postgres

// TableScanSQL lists every column of every user table and view.
// Ordinals: schema, table, kind (1 table / 0 view), column, type,
// nullable, primary key, updatable. Flags are integers.
const TableScanSQL = `
	SELECT
		c.table_schema::text,
		c.table_name::text,
		CASE WHEN t.table_type = 'BASE TABLE' THEN 1 ELSE 0 END::int4 AS kind,
		c.column_name::text,
		c.udt_name::text,
		CASE WHEN c.is_nullable = 'YES' THEN 1 ELSE 0 END::int4        AS is_nullable,
		(
			SELECT count(*)
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
			  ON tc.constraint_name = kcu.constraint_name
			 AND tc.table_schema    = kcu.table_schema
			 AND tc.table_name      = kcu.table_name
			WHERE tc.constraint_type = 'PRIMARY KEY'
			  AND kcu.table_schema   = c.table_schema
			  AND kcu.table_name     = c.table_name
			  AND kcu.column_name    = c.column_name
		)::int4                                                         AS is_primary_key,
		CASE
			WHEN c.is_identity = 'YES'                 THEN 0
			WHEN c.is_generated <> 'NEVER'             THEN 0
			WHEN c.column_default LIKE 'nextval(%'     THEN 0
			WHEN c.is_updatable = 'NO'                 THEN 0
			ELSE 1
		END::int4                                                       AS is_updatable
	FROM information_schema.columns c
	JOIN information_schema.tables t
	  ON t.table_schema = c.table_schema
	 AND t.table_name   = c.table_name
	WHERE c.table_schema NOT IN ('pg_catalog', 'information_schema')
	  AND c.table_schema NOT LIKE 'pg_toast%'
	ORDER BY c.table_schema, c.table_name, c.ordinal_position`

// FKScanSQL lists one row per foreign-key column pair. conkey and confkey
// are unnested together so composite keys pair columns by position.
// Ordinals: me schema, me table, me column, other schema, other table, other column.
const FKScanSQL = `
	SELECT
		ns.nspname::text,
		cl.relname::text,
		att.attname::text,
		fns.nspname::text,
		fcl.relname::text,
		fatt.attname::text
	FROM pg_catalog.pg_constraint con
	CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS cols(me_attnum, other_attnum, pos)
	JOIN pg_catalog.pg_class cl       ON cl.oid = con.conrelid
	JOIN pg_catalog.pg_namespace ns   ON ns.oid = cl.relnamespace
	JOIN pg_catalog.pg_attribute att  ON att.attrelid = con.conrelid  AND att.attnum = cols.me_attnum
	JOIN pg_catalog.pg_class fcl      ON fcl.oid = con.confrelid
	JOIN pg_catalog.pg_namespace fns  ON fns.oid = fcl.relnamespace
	JOIN pg_catalog.pg_attribute fatt ON fatt.attrelid = con.confrelid AND fatt.attnum = cols.other_attnum
	WHERE con.contype = 'f'
	  AND ns.nspname NOT IN ('pg_catalog', 'information_schema')
	  AND ns.nspname NOT LIKE 'pg_toast%'
	ORDER BY ns.nspname, cl.relname, con.conname, cols.pos`
