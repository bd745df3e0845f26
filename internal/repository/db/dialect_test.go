package db

import "testing"

func TestRebindDollar(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"No placeholders", "SELECT 1", "SELECT 1"},
		{"Two placeholders", "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"Quoted question mark", "SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
		{"Escape literal", "LOWER(x) LIKE ? ESCAPE '!'", "LOWER(x) LIKE $1 ESCAPE '!'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RebindDollar(tt.in); got != tt.want {
				t.Errorf("RebindDollar() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go", "%go%"},
		{"100%", "%100!%%"},
		{"snake_case", "%snake!_case%"},
		{"wow!", "%wow!!%"},
		{"", "%%"},
	}

	for _, tt := range tests {
		if got := ContainsPattern(tt.in); got != tt.want {
			t.Errorf("ContainsPattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsAny(t *testing.T) {
	clause, args := ContainsAny([]string{"p.title", "u.username"}, "Tea")
	want := "(LOWER(p.title) LIKE ? ESCAPE '!' OR LOWER(u.username) LIKE ? ESCAPE '!')"
	if clause != want {
		t.Errorf("clause = %q, want %q", clause, want)
	}
	if len(args) != 2 || args[0] != "%tea%" {
		t.Errorf("args = %v", args)
	}

	if clause, args := ContainsAny(nil, "x"); clause != "" || args != nil {
		t.Error("no columns should yield no filter")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"app.db", "app.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:app.db?cache=shared", "file:app.db?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"app.db?_pragma=foreign_keys(0)", "app.db?_pragma=foreign_keys(0)"},
	}

	for _, tt := range tests {
		if got := SQLiteDSN(tt.in); got != tt.want {
			t.Errorf("SQLiteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDatabaseType(t *testing.T) {
	if ParseDatabaseType("postgresql") != PostgreSQL || ParseDatabaseType("sqlite3") != SQLite {
		t.Error("driver aliases not normalized")
	}
	if ParseDatabaseType("oracle").IsValid() {
		t.Error("unknown driver should be invalid")
	}
}

func TestDriverDSN(t *testing.T) {
	tests := []struct {
		name string
		typ  DatabaseType
		in   string
		want string
	}{
		{"sqlite", SQLite, "app.db", "app.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"mysql adds defaults", MySQL, "u:p@tcp(db:3306)/hub", "u:p@tcp(db:3306)/hub?parseTime=true&sql_mode=%27TRADITIONAL%2CNO_AUTO_VALUE_ON_ZERO%27"},
		{"mysql keeps explicit values", MySQL, "u:p@tcp(db)/hub?parseTime=false", "u:p@tcp(db)/hub?parseTime=false&sql_mode=%27TRADITIONAL%2CNO_AUTO_VALUE_ON_ZERO%27"},
		{"postgres url", PostgreSQL, "postgres://u:p@db/hub?sslmode=disable", "postgres://u:p@db/hub?sslmode=disable&timezone=UTC"},
		{"postgres keywords", PostgreSQL, "host=db dbname=hub", "host=db dbname=hub timezone=UTC"},
		{"postgres explicit zone", PostgreSQL, "host=db TimeZone=Europe/Paris", "host=db TimeZone=Europe/Paris"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := LookupDriver(tt.typ)
			if err != nil {
				t.Fatal(err)
			}
			if got := d.dsn(tt.in); got != tt.want {
				t.Errorf("dsn(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLookupDriver(t *testing.T) {
	for _, typ := range []DatabaseType{SQLite, MySQL, PostgreSQL} {
		d, err := LookupDriver(typ)
		if err != nil {
			t.Fatalf("LookupDriver(%s): %v", typ, err)
		}
		if d.Type != typ || d.SQLName == "" || d.MigrateName == "" {
			t.Errorf("incomplete driver for %s: %+v", typ, d)
		}
	}

	if _, err := LookupDriver("oracle"); err == nil {
		t.Error("expected an error for an unknown type")
	}
}
