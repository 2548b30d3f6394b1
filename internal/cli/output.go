package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case BalanceResult:
		o.printBalance(v)
	case HistoryResult:
		o.printHistory(v)
	case TodayResult:
		o.printToday(v)
	case AllowanceResult:
		o.printAllowance(v)
	case AuthResult:
		o.printAuthResult(v)
	case BrandsResult:
		o.printBrands(v)
	case Brand:
		o.printBrand(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Actor response type (matches API)
type Actor struct {
	Kind      string `json:"kind"`
	GuestID   string `json:"guest_id,omitempty"`
	AccountID string `json:"account_id,omitempty"`
}

// BalanceResult response type
type BalanceResult struct {
	Balance int64 `json:"balance"`
	Actor   Actor `json:"actor"`
}

// HistoryEntry response type
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
	Amount    int64     `json:"amount"`
}

// HistoryResult response type
type HistoryResult struct {
	Entries []HistoryEntry `json:"entries"`
}

// PlayRecord response type
type PlayRecord struct {
	DateKey  string `json:"date_key"`
	GameType string `json:"game_type"`
	BrandID  string `json:"brand_id,omitempty"`
}

// TodayResult response type
type TodayResult struct {
	DateKey   string       `json:"date_key"`
	PlaysUsed int          `json:"plays_used"`
	Records   []PlayRecord `json:"records"`
}

// AllowanceResult response type
type AllowanceResult struct {
	CanPlay    bool `json:"can_play"`
	PlaysUsed  int  `json:"plays_used"`
	DailyLimit int  `json:"daily_limit"`
}

// MigrationResult response type
type MigrationResult struct {
	Migrated        int64 `json:"migrated"`
	AlreadyMigrated bool  `json:"already_migrated,omitempty"`
}

// AuthResult response type
type AuthResult struct {
	SessionToken string           `json:"session_token"`
	AccountID    string           `json:"account_id"`
	Username     string           `json:"username"`
	Migration    *MigrationResult `json:"migration,omitempty"`
}

// Mission response type
type Mission struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Points int64  `json:"points"`
}

// Brand response type
type Brand struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Missions []Mission `json:"missions"`
}

// BrandsResult response type
type BrandsResult struct {
	Brands []Brand `json:"brands"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printBalance(b BalanceResult) {
	fmt.Printf("Balance: %d\n", b.Balance)
	if b.Actor.Kind == "guest" {
		fmt.Printf("Actor: guest (%s)\n", b.Actor.GuestID)
	} else {
		fmt.Printf("Actor: %s (%s)\n", b.Actor.Kind, b.Actor.AccountID)
	}
}

func (o *Output) printHistory(h HistoryResult) {
	if len(h.Entries) == 0 {
		fmt.Println("No history")
		return
	}
	fmt.Printf("History (%d entries, newest first):\n", len(h.Entries))
	for _, e := range h.Entries {
		fmt.Printf("  %s  %+d  %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Amount, e.Reason)
	}
}

func (o *Output) printToday(t TodayResult) {
	fmt.Printf("Date: %s\n", t.DateKey)
	fmt.Printf("Plays used: %d\n", t.PlaysUsed)
	for _, r := range t.Records {
		if r.BrandID != "" {
			fmt.Printf("  - %s (brand: %s)\n", r.GameType, r.BrandID)
		} else {
			fmt.Printf("  - %s\n", r.GameType)
		}
	}
}

func (o *Output) printAllowance(a AllowanceResult) {
	canStr := "no"
	if a.CanPlay {
		canStr = "yes"
	}
	fmt.Printf("Can play: %s\n", canStr)
	fmt.Printf("Plays used: %d/%d\n", a.PlaysUsed, a.DailyLimit)
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Printf("Account: %s (%s)\n", a.Username, a.AccountID)
	fmt.Printf("Token: %s\n", a.SessionToken)
	if a.Migration != nil {
		if a.Migration.AlreadyMigrated {
			fmt.Println("Guest points already transferred on a previous sign-in")
		} else if a.Migration.Migrated > 0 {
			fmt.Printf("Transferred %d guest points to your account\n", a.Migration.Migrated)
		}
	}
}

func (o *Output) printBrands(b BrandsResult) {
	fmt.Printf("Brands (%d):\n", len(b.Brands))
	for _, brand := range b.Brands {
		fmt.Printf("  - %s (%s), %d missions\n", brand.Name, brand.ID, len(brand.Missions))
	}
}

func (o *Output) printBrand(b Brand) {
	fmt.Printf("Brand: %s (%s)\n", b.Name, b.ID)
	fmt.Printf("Missions (%d):\n", len(b.Missions))
	for _, m := range b.Missions {
		fmt.Printf("  - %s: %d points\n", m.Title, m.Points)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
