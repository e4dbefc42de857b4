package query_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/crudify/pkg/query"
)

func TestBuilder_BuildCount_NoConditions(t *testing.T) {
	b := query.NewBuilder("users")

	sql, args, err := b.BuildCount()
	if err != nil {
		t.Fatalf("BuildCount() error = %v", err)
	}

	wantSQL := "SELECT COUNT(*) FROM documents WHERE collection = $1"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}

	if len(args) != 1 || args[0] != "users" {
		t.Errorf("BuildCount() args = %v, want [users]", args)
	}
}

func TestBuilder_BuildPage_NoConditions(t *testing.T) {
	b := query.NewBuilder("users")

	sql, _, err := b.BuildPage(20, 0)
	if err != nil {
		t.Fatalf("BuildPage() error = %v", err)
	}

	want := "SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1 ORDER BY created_at ASC, id ASC LIMIT 20"
	if sql != want {
		t.Errorf("BuildPage() sql = %q, want %q", sql, want)
	}
}

func TestBuilder_BuildPage_Pagination(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		offset    int
		wantTail  string
		wantLimit bool
	}{
		{"first page", 20, 0, "LIMIT 20", true},
		{"second page", 20, 20, "LIMIT 20 OFFSET 20", true},
		{"unbounded", 0, 0, "ORDER BY created_at ASC, id ASC", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, _ := query.NewBuilder("users").BuildPage(tt.limit, tt.offset)

			if !strings.HasSuffix(sql, tt.wantTail) {
				t.Errorf("BuildPage() = %q, want suffix %q", sql, tt.wantTail)
			}
			if strings.Contains(sql, "LIMIT") != tt.wantLimit {
				t.Errorf("BuildPage() LIMIT presence = %v, want %v", !tt.wantLimit, tt.wantLimit)
			}
		})
	}
}

func TestBuilder_WhereEquals_Scalar(t *testing.T) {
	sql, args, err := query.NewBuilder("users").
		WhereEquals("name", "Ada").
		BuildCount()
	if err != nil {
		t.Fatalf("BuildCount() error = %v", err)
	}

	if !strings.Contains(sql, "(data @> $2::jsonb OR data @> $3::jsonb)") {
		t.Errorf("missing containment clause, got %q", sql)
	}

	if len(args) != 3 {
		t.Fatalf("len(args) = %d, want 3", len(args))
	}
	if args[1] != `{"name":"Ada"}` {
		t.Errorf("args[1] = %v", args[1])
	}
	if args[2] != `{"name":["Ada"]}` {
		t.Errorf("args[2] = %v", args[2])
	}
}

func TestBuilder_WhereEquals_NestedArray(t *testing.T) {
	_, args, err := query.NewBuilder("users").
		WhereEquals("address.tags", []any{"a", "b"}).
		BuildCount()
	if err != nil {
		t.Fatalf("BuildCount() error = %v", err)
	}

	if len(args) != 2 {
		t.Fatalf("len(args) = %d, want 2", len(args))
	}
	if args[1] != `{"address":{"tags":["a","b"]}}` {
		t.Errorf("args[1] = %v", args[1])
	}
}

func TestBuilder_WhereEquals_SystemField(t *testing.T) {
	sql, args, err := query.NewBuilder("users").
		WhereEquals("_id", "4f0c").
		BuildCount()
	if err != nil {
		t.Fatalf("BuildCount() error = %v", err)
	}

	if !strings.Contains(sql, "id::text = $2") {
		t.Errorf("missing id clause, got %q", sql)
	}
	if args[1] != "4f0c" {
		t.Errorf("args[1] = %v, want 4f0c", args[1])
	}
}

func TestBuilder_WhereEquals_Nil(t *testing.T) {
	sql, args, err := query.NewBuilder("users").
		WhereEquals("deletedAt", nil).
		BuildCount()
	if err != nil {
		t.Fatalf("BuildCount() error = %v", err)
	}

	if !strings.Contains(sql, "COALESCE(data #> $2::text[], 'null'::jsonb) = 'null'::jsonb") {
		t.Errorf("missing null clause, got %q", sql)
	}
	if args[1] != "{deletedAt}" {
		t.Errorf("args[1] = %v, want {deletedAt}", args[1])
	}
}

func TestBuilder_WhereMatches(t *testing.T) {
	sql, args, err := query.NewBuilder("users").
		WhereEquals("role", "admin").
		WhereMatches("profile.email", "@example\\.com$").
		BuildPage(10, 0)
	if err != nil {
		t.Fatalf("BuildPage() error = %v", err)
	}

	if !strings.Contains(sql, "(data #>> $4::text[]) ~* $5") {
		t.Errorf("missing regex clause, got %q", sql)
	}
	if args[3] != "{profile,email}" {
		t.Errorf("args[3] = %v, want {profile,email}", args[3])
	}
	if args[4] != "@example\\.com$" {
		t.Errorf("args[4] = %v", args[4])
	}
}

func TestBuilder_OrderBy(t *testing.T) {
	tests := []struct {
		name      string
		fields    []query.SortField
		wantOrder string
	}{
		{
			name:      "document field",
			fields:    []query.SortField{{Field: "name"}},
			wantOrder: "ORDER BY data #> '{name}' ASC, id ASC",
		},
		{
			name:      "nested descending",
			fields:    []query.SortField{{Field: "address.city", Descending: true}},
			wantOrder: "ORDER BY data #> '{address,city}' DESC, id ASC",
		},
		{
			name:      "system field",
			fields:    []query.SortField{{Field: "createdAt", Descending: true}, {Field: "name"}},
			wantOrder: "ORDER BY created_at DESC, data #> '{name}' ASC, id ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := query.NewBuilder("users").OrderBy(tt.fields...).BuildPage(10, 0)
			if err != nil {
				t.Fatalf("BuildPage() error = %v", err)
			}

			if !strings.Contains(sql, tt.wantOrder) {
				t.Errorf("BuildPage() missing %q, got %q", tt.wantOrder, sql)
			}
		})
	}
}

func TestBuilder_InvalidField(t *testing.T) {
	tests := []struct {
		name string
		b    *query.Builder
	}{
		{"sort injection", query.NewBuilder("users").OrderBy(query.SortField{Field: "name'; DROP TABLE documents; --"})},
		{"equals bad path", query.NewBuilder("users").WhereEquals("a..b", "x")},
		{"matches bad path", query.NewBuilder("users").WhereMatches("$where", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.b.BuildCount(); !errors.Is(err, query.ErrInvalidField) {
				t.Errorf("BuildCount() error = %v, want ErrInvalidField", err)
			}
			if _, _, err := tt.b.BuildPage(10, 0); !errors.Is(err, query.ErrInvalidField) {
				t.Errorf("BuildPage() error = %v, want ErrInvalidField", err)
			}
		})
	}
}
