//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	server "hotel_catalog/internal/adapters/http_server"
	redisad "hotel_catalog/internal/adapters/redis"
	"hotel_catalog/internal/adapters/source"
	"hotel_catalog/internal/app"
	"hotel_catalog/internal/domain"
	mysqlrepo "hotel_catalog/internal/storage/mysql"
)

const exportCSV = `title,url,city,location,latitude,longitude,facilities,gallery,rooms,search_pricing
Hotel Rustaveli,https://example.com/rustaveli,Tbilisi,Rustaveli Ave 1,41.70,44.79,"[""Free WiFi"",""See all 20 facilities""]","[""https://img/1.jpg"",""https://img/2.jpg""]","[{""name"":""Double Room"",""images"":[""https://img/r1.jpg""],""price_display"":""GEL 120""}]","{""current_price_display"":""GEL 110""}"
Fabrika Hostel,https://example.com/fabrika,Tbilisi,,41.71,44.80,[],[],[],
`

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "migrations")
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=catalog",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/catalog?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)
	return db
}

func TestHTTP_EndToEnd_IngestThenServe(t *testing.T) {
	db := startMySQL(t)
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	repo := mysqlrepo.New(db)
	cache := redisad.NewWithClient(rc)
	pub := redisad.NewPublisher(rc, "catalog:events", 100)
	sanitizer := app.NewSanitizer(app.SanitizerOptions{
		Country:   "Georgia",
		Reference: &domain.Coords{Lat: 41.6938, Lon: 44.8015},
	})

	raws, err := source.Decode(strings.NewReader(exportCSV), source.FormatCSV, "text/csv", "export.csv")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rep, err := app.NewIngestionService(sanitizer, repo, cache, pub).IngestAll(ctx, raws, 2)
	if err != nil || rep.Stored != 2 || rep.Failed != 0 {
		t.Fatalf("ingest: %+v %v", rep, err)
	}
	if n, err := rc.XLen(ctx, "catalog:events").Result(); err != nil || n != 2 {
		t.Fatalf("expected 2 stream events, got %d (%v)", n, err)
	}

	srv := server.New(zerolog.Nop(), 0)
	srv.MountHandlers(&server.Handlers{
		Q: app.NewQueryService(repo, cache, time.Minute),
		S: sanitizer,
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	want := sanitizer.Sanitize(raws[0])
	res, err := http.Get(ts.URL + "/v1/hotels/" + want.ID)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var got domain.SanitizedHotel
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Hotel Rustaveli" || got.Price != 110 || len(got.Rooms) != 1 || got.Rooms[0].Price != 120 {
		t.Fatalf("unexpected hotel: %+v", got)
	}
	if got.Distance <= 0 || len(got.Service) != 1 {
		t.Fatalf("unexpected derived fields: %+v", got)
	}
	if !mr.Exists("catalog:hotel:" + want.ID) {
		t.Fatalf("expected hotel view to be cached")
	}

	lres, err := http.Get(ts.URL + "/v1/hotels?city=Tbilisi&category=Hostel")
	if err != nil {
		t.Fatalf("GET list: %v", err)
	}
	defer lres.Body.Close()
	var page domain.HotelsPage
	if err := json.NewDecoder(lres.Body).Decode(&page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "Fabrika Hostel" {
		t.Fatalf("unexpected list: %+v", page.Items)
	}
}
