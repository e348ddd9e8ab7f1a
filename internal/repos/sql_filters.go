package repos

import (
	"gorm.io/gorm"
)

type Filter interface {
	Apply(query *gorm.DB) *gorm.DB
}

type WhereFilter struct {
	SQL  string
	Args []any
}

func (f WhereFilter) Apply(query *gorm.DB) *gorm.DB {
	return query.Where(f.SQL, f.Args...)
}

func FilterByScenario(name string) WhereFilter {
	return WhereFilter{
		SQL:  "runs.scenario = ?",
		Args: []any{name},
	}
}

func FilterByNode(node string) WhereFilter {
	return WhereFilter{
		SQL:  "runs.node = ?",
		Args: []any{node},
	}
}

func RawFilter(sql string) WhereFilter {
	return WhereFilter{
		SQL: sql,
	}
}
