package detect

// FKLookup indexes FK rows by the identity of one of their endpoints.
type FKLookup = Lookup[TableIdent, FKScanRecord]

// BuildLookups indexes fks twice: belongsTo by the referencing ("me") table,
// hasMany by the referenced ("other") table.
func BuildLookups(fks []FKScanRecord) (belongsTo, hasMany *FKLookup) {
	belongsTo = buildLookup(fks, func(fk FKScanRecord) FKEndpoint { return fk.Me })
	hasMany = buildLookup(fks, func(fk FKScanRecord) FKEndpoint { return fk.Other })
	return belongsTo, hasMany
}

func buildLookup(fks []FKScanRecord, endpoint func(FKScanRecord) FKEndpoint) *FKLookup {
	return GroupBy(fks, func(fk FKScanRecord) TableIdent {
		return endpoint(fk).Ident
	})
}

// ResolveRelations fills BelongsTo and HasMany of every table from the two
// lookups, taking each matched bucket out of its lookup. Buckets whose
// identity matches no table stay behind in the lookups.
func ResolveRelations(tables []TableDef, belongsTo, hasMany *FKLookup) {
	for i := range tables {
		t := &tables[i]

		if bucket, ok := belongsTo.Take(t.Ident); ok {
			for _, fk := range bucket {
				t.BelongsTo = append(t.BelongsTo, RelationDef{
					Other:      fk.Other.Ident,
					ForeignKey: fk.Me.Column,
					PrimaryKey: fk.Other.Column,
				})
			}
		}

		if bucket, ok := hasMany.Take(t.Ident); ok {
			for _, fk := range bucket {
				t.HasMany = append(t.HasMany, RelationDef{
					Other:      fk.Me.Ident,
					ForeignKey: fk.Me.Column,
					PrimaryKey: fk.Other.Column,
				})
			}
		}
	}
}
