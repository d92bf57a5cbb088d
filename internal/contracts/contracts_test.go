package contracts

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHistory_Accessors(t *testing.T) {
	h := History{
		{Date: time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Date: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), Open: 11, High: 13, Low: 10, Close: 12, Volume: 200},
	}

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	last, ok := h.Last()
	if !ok || last.Close != 12 {
		t.Errorf("Last() = %+v, ok=%v, want close 12", last, ok)
	}

	closes := h.Closes()
	if closes[0] != 11 || closes[1] != 12 {
		t.Errorf("Closes() = %v", closes)
	}
	if h.Highs()[1] != 13 || h.Lows()[0] != 9 {
		t.Error("Highs/Lows mismatch")
	}
	if h.Volumes()[1] != 200 {
		t.Errorf("Volumes()[1] = %v, want 200", h.Volumes()[1])
	}
}

func TestHistory_Empty(t *testing.T) {
	var h History
	if _, ok := h.Last(); ok {
		t.Error("Last() on empty history should report !ok")
	}
}

func TestUndefined(t *testing.T) {
	if Defined(Undefined()) {
		t.Error("Undefined() must not be Defined")
	}
	if !Defined(42.0) {
		t.Error("42.0 must be Defined")
	}
	if !Defined(0.0) {
		t.Error("zero is a legitimate indicator value")
	}
}

func TestIndicatorSeries_Latest(t *testing.T) {
	s := &IndicatorSeries{
		Ticker: "AAPL34",
		Bars: History{
			{Close: 10},
			{Close: 11},
		},
		Rows: []IndicatorRow{
			{RSI14: Undefined()},
			{RSI14: 35},
		},
	}

	bar, row, ok := s.Latest()
	if !ok {
		t.Fatal("Latest() should succeed")
	}
	if bar.Close != 11 || row.RSI14 != 35 {
		t.Errorf("Latest() = bar %+v row %+v", bar, row)
	}

	prev, ok := s.Previous()
	if !ok || prev.Close != 10 {
		t.Errorf("Previous() = %+v, ok=%v", prev, ok)
	}
}

func TestIndicatorSeries_LatestMisaligned(t *testing.T) {
	s := &IndicatorSeries{
		Bars: History{{Close: 10}},
		Rows: nil,
	}
	if _, _, ok := s.Latest(); ok {
		t.Error("Latest() must fail when rows are not aligned with bars")
	}
}

func TestScanResult_TopAndTrendCount(t *testing.T) {
	r := &ScanResult{
		Signals: []Signal{
			{Ticker: "AAPL34", TrendUp: true},
			{Ticker: "MSFT34", TrendUp: false},
			{Ticker: "GOGL34", TrendUp: true},
		},
	}

	if got := r.TrendCount(); got != 2 {
		t.Errorf("TrendCount() = %d, want 2", got)
	}
	if top := r.Top(2); len(top) != 2 || top[0].Ticker != "AAPL34" {
		t.Errorf("Top(2) = %v", top)
	}
	if top := r.Top(10); len(top) != 3 {
		t.Errorf("Top(10) = %d signals, want 3", len(top))
	}
}

func TestSignal_JSON(t *testing.T) {
	original := Signal{
		Ticker:        "AAPL34",
		Name:          "Apple",
		Strategy:      StrategyDecline,
		Price:         52.3,
		Volume:        150000,
		ChangeDay:     -0.05,
		OversoldIndex: 78,
		RSI14:         25,
		Score:         7,
		Label:         LabelGold,
		Rationale:     []string{"RSI Sobrevenda", "Suporte BB"},
		TrendUp:       true,
		At:            time.Date(2026, 8, 28, 21, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Signal
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Ticker != original.Ticker {
		t.Errorf("Ticker = %s, want %s", decoded.Ticker, original.Ticker)
	}
	if decoded.ChangeDay != original.ChangeDay {
		t.Errorf("ChangeDay = %v, want %v", decoded.ChangeDay, original.ChangeDay)
	}
	if len(decoded.Rationale) != 2 {
		t.Errorf("Rationale = %v", decoded.Rationale)
	}
}
