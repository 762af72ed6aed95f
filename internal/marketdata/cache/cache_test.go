package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/marketdata"
)

type mockProvider struct {
	priceCalls int
	infoCalls  int
	series     models.PriceSeries
	info       models.CompanyInfo
	priceErr   error
	infoErr    error
}

func (m *mockProvider) FetchPriceSeries(_ context.Context, ticker, _, _ string) (models.PriceSeries, error) {
	m.priceCalls++
	if m.priceErr != nil {
		return models.PriceSeries{}, m.priceErr
	}
	s := m.series
	s.Ticker = ticker
	return s, nil
}

func (m *mockProvider) FetchCompanyInfo(context.Context, string) (models.CompanyInfo, error) {
	m.infoCalls++
	return m.info, m.infoErr
}

var _ marketdata.Provider = (*mockProvider)(nil)

func sampleSeries() models.PriceSeries {
	return models.PriceSeries{Ticker: "AAPL", Bars: []models.Bar{
		{Date: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
	}}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestNew_Defaults(t *testing.T) {
	cases := []struct {
		name          string
		ttl           time.Duration
		namespace     string
		wantTTL       time.Duration
		wantNamespace string
	}{
		{name: "zero values", wantTTL: DefaultTTL, wantNamespace: DefaultNamespace},
		{name: "negative ttl", ttl: -time.Minute, wantTTL: DefaultTTL, wantNamespace: DefaultNamespace},
		{name: "custom", ttl: time.Hour, namespace: "x", wantTTL: time.Hour, wantNamespace: "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(nil, tc.ttl, &mockProvider{}, tc.namespace)
			if p.ttl != tc.wantTTL || p.namespace != tc.wantNamespace {
				t.Fatalf("got ttl=%v ns=%q", p.ttl, p.namespace)
			}
		})
	}
}

func TestFetchPriceSeries_NilRedis(t *testing.T) {
	inner := &mockProvider{series: sampleSeries()}
	p := New(nil, time.Minute, inner, "")

	for i := 0; i < 2; i++ {
		if _, err := p.FetchPriceSeries(context.Background(), "aapl", "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if inner.priceCalls != 2 {
		t.Fatalf("expected bypass, inner called %d times", inner.priceCalls)
	}
}

func TestFetchPriceSeries_CacheHit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("ns:prices:AAPL:1y:1d").SetVal(string(mustJSON(t, sampleSeries())))

	inner := &mockProvider{}
	p := New(rdb, time.Minute, inner, "ns")
	s, err := p.FetchPriceSeries(context.Background(), "aapl", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.priceCalls != 0 {
		t.Error("inner provider should not be called on cache hit")
	}
	if s.Len() != 1 || s.Last().Close != 1.5 || !s.Last().Date.Equal(sampleSeries().Last().Date) {
		t.Fatalf("unexpected series %+v", s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestFetchPriceSeries_CacheMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("ns:prices:AAPL:6mo:1wk").RedisNil()
	mock.ExpectSet("ns:prices:AAPL:6mo:1wk", mustJSON(t, sampleSeries()), time.Minute).SetVal("OK")

	inner := &mockProvider{series: sampleSeries()}
	p := New(rdb, time.Minute, inner, "ns")
	if _, err := p.FetchPriceSeries(context.Background(), "AAPL", "6mo", "1wk"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.priceCalls != 1 {
		t.Fatalf("inner called %d times", inner.priceCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestFetchPriceSeries_CorruptedCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("ns:prices:AAPL:1y:1d").SetVal("invalid json")
	mock.ExpectDel("ns:prices:AAPL:1y:1d").SetVal(1)
	mock.ExpectSet("ns:prices:AAPL:1y:1d", mustJSON(t, sampleSeries()), time.Minute).SetVal("OK")

	p := New(rdb, time.Minute, &mockProvider{series: sampleSeries()}, "ns")
	if _, err := p.FetchPriceSeries(context.Background(), "AAPL", "1y", "1d"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestFetchPriceSeries_InnerErrorNotCached(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("ns:prices:AAPL:1y:1d").RedisNil()

	p := New(rdb, time.Minute, &mockProvider{priceErr: marketdata.ErrNotFound}, "ns")
	_, err := p.FetchPriceSeries(context.Background(), "AAPL", "1y", "1d")
	if !errors.Is(err, marketdata.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestFetchPriceSeries_InvalidPeriod(t *testing.T) {
	inner := &mockProvider{}
	p := New(nil, 0, inner, "")
	if _, err := p.FetchPriceSeries(context.Background(), "AAPL", "3w", "1d"); err == nil {
		t.Fatal("expected error")
	}
	if inner.priceCalls != 0 {
		t.Fatal("inner must not be called with an invalid period")
	}
}

func TestFetchCompanyInfo_CacheMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	info := models.CompanyInfo{"sector": "Technology", "trailingPE": 31.5}
	mock.ExpectGet("ns:info:AAPL").RedisNil()
	mock.ExpectSet("ns:info:AAPL", mustJSON(t, info), time.Minute).SetVal("OK")

	p := New(rdb, time.Minute, &mockProvider{info: info}, "ns")
	got, err := p.FetchCompanyInfo(context.Background(), " aapl ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String("sector") != "Technology" {
		t.Fatalf("unexpected info %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestFetchStatements_Unsupported(t *testing.T) {
	p := New(nil, 0, &mockProvider{}, "")
	if _, err := p.FetchStatements(context.Background(), "AAPL"); !errors.Is(err, marketdata.ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
}

func TestWarm(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	s := sampleSeries()
	mock.ExpectScan(0, "ns:prices:AAPL:*", 200).SetVal([]string{"ns:prices:AAPL:6mo:1d"}, 0)
	mock.ExpectDel("ns:prices:AAPL:6mo:1d").SetVal(1)
	mock.ExpectDel("ns:info:AAPL", "ns:statements:AAPL").SetVal(2)
	mock.ExpectSet("ns:prices:AAPL:1y:1d", mustJSON(t, s), time.Minute).SetVal("OK")

	inner := &mockProvider{series: s, infoErr: marketdata.ErrUnsupported}
	p := New(rdb, time.Minute, inner, "ns")
	if err := p.Warm(context.Background(), []string{"AAPL"}, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}

	failing := New(nil, 0, &mockProvider{priceErr: errors.New("down")}, "")
	if err := failing.Warm(context.Background(), []string{"AAPL", "MSFT"}, "", ""); err == nil {
		t.Fatal("expected joined error")
	}
}

func TestWarm_FailedFetchKeepsCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockProvider{priceErr: errors.New("down"), infoErr: marketdata.ErrUnsupported}
	p := New(rdb, time.Minute, inner, "ns")

	// no Redis command is expected: any eviction would surface as a mock error
	err := p.Warm(context.Background(), []string{"AAPL"}, "", "")
	if err == nil || err.Error() != "warm AAPL prices: down" {
		t.Fatalf("want only the price failure, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "ns:prices:AAPL:*", 200).SetVal([]string{"ns:prices:AAPL:1y:1d"}, 0)
	mock.ExpectDel("ns:prices:AAPL:1y:1d").SetVal(1)
	mock.ExpectDel("ns:info:AAPL", "ns:statements:AAPL").SetVal(1)

	p := New(rdb, time.Minute, &mockProvider{}, "ns")
	if err := p.Invalidate(context.Background(), "aapl"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}
