package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SymbolInfo maps a user-facing symbol to provider identifiers.
type SymbolInfo struct {
	Name        string  `yaml:"name" json:"name"`
	PrimaryPair string  `yaml:"primary_pair" json:"primaryPair"` // exchange pair, e.g. BTCUSDT
	SecondaryID string  `yaml:"secondary_id" json:"secondaryId"` // aggregator coin id, e.g. bitcoin
	BasePrice   float64 `yaml:"base_price" json:"basePrice"`     // anchor for synthetic candles
	BaseVolume  float64 `yaml:"base_volume" json:"baseVolume"`
}

// SymbolMap is an immutable symbol lookup table built once at startup.
type SymbolMap struct {
	entries map[string]SymbolInfo
}

// NewSymbolMap copies entries into a new map keyed by upper-case symbol.
func NewSymbolMap(entries map[string]SymbolInfo) *SymbolMap {
	m := &SymbolMap{entries: make(map[string]SymbolInfo, len(entries))}
	for sym, info := range entries {
		m.entries[strings.ToUpper(strings.TrimSpace(sym))] = info
	}
	return m
}

// DefaultSymbolMap returns the built-in table.
func DefaultSymbolMap() *SymbolMap {
	return NewSymbolMap(map[string]SymbolInfo{
		"BTC":  {Name: "Bitcoin", PrimaryPair: "BTCUSDT", SecondaryID: "bitcoin", BasePrice: 65000, BaseVolume: 1200},
		"ETH":  {Name: "Ethereum", PrimaryPair: "ETHUSDT", SecondaryID: "ethereum", BasePrice: 3200, BaseVolume: 18000},
		"SOL":  {Name: "Solana", PrimaryPair: "SOLUSDT", SecondaryID: "solana", BasePrice: 150, BaseVolume: 250000},
		"BNB":  {Name: "BNB", PrimaryPair: "BNBUSDT", SecondaryID: "binancecoin", BasePrice: 580, BaseVolume: 40000},
		"XRP":  {Name: "XRP", PrimaryPair: "XRPUSDT", SecondaryID: "ripple", BasePrice: 0.6, BaseVolume: 30000000},
		"ADA":  {Name: "Cardano", PrimaryPair: "ADAUSDT", SecondaryID: "cardano", BasePrice: 0.45, BaseVolume: 25000000},
		"DOGE": {Name: "Dogecoin", PrimaryPair: "DOGEUSDT", SecondaryID: "dogecoin", BasePrice: 0.15, BaseVolume: 90000000},
		"AVAX": {Name: "Avalanche", PrimaryPair: "AVAXUSDT", SecondaryID: "avalanche-2", BasePrice: 30, BaseVolume: 600000},
		"LINK": {Name: "Chainlink", PrimaryPair: "LINKUSDT", SecondaryID: "chainlink", BasePrice: 14, BaseVolume: 900000},
		"DOT":  {Name: "Polkadot", PrimaryPair: "DOTUSDT", SecondaryID: "polkadot", BasePrice: 6.5, BaseVolume: 1500000},
	})
}

// LoadSymbolMap reads a YAML file of the form:
//
//	symbols:
//	  BTC: {name: Bitcoin, primary_pair: BTCUSDT, secondary_id: bitcoin, base_price: 65000}
func LoadSymbolMap(path string) (*SymbolMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbol map: %w", err)
	}
	return ParseSymbolMap(data)
}

// ParseSymbolMap parses the YAML symbol map document.
func ParseSymbolMap(data []byte) (*SymbolMap, error) {
	var doc struct {
		Symbols map[string]SymbolInfo `yaml:"symbols"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse symbol map: %w", err)
	}
	if len(doc.Symbols) == 0 {
		return nil, fmt.Errorf("parse symbol map: no symbols defined")
	}
	return NewSymbolMap(doc.Symbols), nil
}

// Lookup returns the info for symbol. Unknown symbols get derived identifiers
// (SYMUSDT / lower-case id) and ok=false.
func (m *SymbolMap) Lookup(symbol string) (SymbolInfo, bool) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if info, ok := m.entries[sym]; ok {
		return info, true
	}
	return SymbolInfo{
		Name:        sym,
		PrimaryPair: sym + "USDT",
		SecondaryID: strings.ToLower(sym),
	}, false
}

// Symbols returns the known symbols in no particular order.
func (m *SymbolMap) Symbols() []string {
	out := make([]string, 0, len(m.entries))
	for sym := range m.entries {
		out = append(out, sym)
	}
	return out
}
