package usecase

import (
	"testing"
)

const exportHeader = "small src,research-table-row__link-row-anchor href,research-table-row__link-row-anchor,research-table-row__item-with-subtitle,research-table-row__inner-item,research-table-row__inner-item (4)"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "euro with decimal comma", raw: "€12,50", want: 12.5},
		{name: "canonical dot form", raw: "12.50", want: 12.5},
		{name: "euro with dot", raw: "€8.99", want: 8.99},
		{name: "surrounding whitespace", raw: " €5 ", want: 5},
		{name: "comma only", raw: "7,5", want: 7.5},
		{name: "cents", raw: "€0,99", want: 0.99},
		{name: "empty string", raw: "", want: 0},
		{name: "text", raw: "Preis auf Anfrage", want: 0},
		{name: "thousands separator does not parse", raw: "€1.234,56", want: 0},
		{name: "double comma does not parse", raw: "1,2,3", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePrice(tt.raw); got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "plain digits", raw: "3", want: 3},
		{name: "leading zeros", raw: "007", want: 7},
		{name: "whitespace around digits", raw: " 12 ", want: 12},
		{name: "empty string", raw: "", want: 1},
		{name: "decorated value", raw: "3 verkauft", want: 1},
		{name: "negative sign", raw: "-2", want: 1},
		{name: "decimal", raw: "12.5", want: 1},
		{name: "text", raw: "viele", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseVolume(tt.raw); got != tt.want {
				t.Errorf("ParseVolume(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseProducts(t *testing.T) {
	t.Run("parses rows in order with derived fields", func(t *testing.T) {
		content := exportHeader + "\n" +
			`https://i.ebayimg.com/images/g/aaa/s-l225.jpg,https://www.ebay.de/itm/111,Apple iPhone 12 Pro 128GB,"€12,50",3,2024-01-15` + "\n" +
			`https://i.ebayimg.com/images/g/bbb/s-l225.jpg,https://www.ebay.de/itm/222,Samsung Galaxy S21,"€9,99",,2024-02-20` + "\n"

		records := ParseProducts([]byte(content), "january.csv")
		if len(records) != 2 {
			t.Fatalf("len(records) = %d, want 2", len(records))
		}

		first := records[0]
		if first.Title != "Apple iPhone 12 Pro 128GB" {
			t.Errorf("Title = %q, want Apple iPhone 12 Pro 128GB", first.Title)
		}
		if first.ImageURL != "https://i.ebayimg.com/images/g/aaa/s-l225.jpg" {
			t.Errorf("ImageURL = %q", first.ImageURL)
		}
		if first.PriceNumeric != 12.5 {
			t.Errorf("PriceNumeric = %v, want 12.5", first.PriceNumeric)
		}
		if first.VolumeNumeric != 3 {
			t.Errorf("VolumeNumeric = %v, want 3", first.VolumeNumeric)
		}
		if first.TotalSales != 37.5 {
			t.Errorf("TotalSales = %v, want 37.5", first.TotalSales)
		}
		if first.SourceFile != "january.csv" {
			t.Errorf("SourceFile = %q, want january.csv", first.SourceFile)
		}

		// Empty sales volume counts as a single sale
		second := records[1]
		if second.SalesVolume != "1" {
			t.Errorf("SalesVolume = %q, want 1 for empty cell", second.SalesVolume)
		}
		if second.VolumeNumeric != 1 {
			t.Errorf("VolumeNumeric = %v, want 1", second.VolumeNumeric)
		}
		if second.TotalSales != 9.99 {
			t.Errorf("TotalSales = %v, want 9.99", second.TotalSales)
		}
	})

	t.Run("strips UTF-8 BOM before the header", func(t *testing.T) {
		content := "\xEF\xBB\xBF" + exportHeader + "\n" +
			`https://i.ebayimg.com/images/g/ccc/s-l225.jpg,https://www.ebay.de/itm/333,Sony WH-1000XM4 Kopfhörer,"€199,00",2,2024-03-01` + "\n"

		records := ParseProducts([]byte(content), "bom.csv")
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		if records[0].ImageURL == "" {
			t.Error("ImageURL empty: BOM corrupted the first header column")
		}
	})

	t.Run("keeps rows with empty image URL", func(t *testing.T) {
		content := exportHeader + "\n" +
			`,https://www.ebay.de/itm/444,Lego Star Wars Set 75192,"€650,00",1,2024-04-01` + "\n"

		records := ParseProducts([]byte(content), "noimage.csv")
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		if records[0].ImageURL != "" {
			t.Errorf("ImageURL = %q, want empty", records[0].ImageURL)
		}
		if records[0].Title != "Lego Star Wars Set 75192" {
			t.Errorf("Title = %q", records[0].Title)
		}
	})

	t.Run("pads short rows with empty fields", func(t *testing.T) {
		content := exportHeader + "\n" +
			`https://i.ebayimg.com/images/g/ddd/s-l225.jpg,https://www.ebay.de/itm/555,Nur drei Spalten` + "\n"

		records := ParseProducts([]byte(content), "short.csv")
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		if records[0].Title != "Nur drei Spalten" {
			t.Errorf("Title = %q", records[0].Title)
		}
		if records[0].PriceRaw != "" {
			t.Errorf("PriceRaw = %q, want empty for missing column", records[0].PriceRaw)
		}
		if records[0].PriceNumeric != 0 {
			t.Errorf("PriceNumeric = %v, want 0", records[0].PriceNumeric)
		}
		// Missing sales volume still defaults to one sale
		if records[0].VolumeNumeric != 1 {
			t.Errorf("VolumeNumeric = %v, want 1", records[0].VolumeNumeric)
		}
	})

	t.Run("skips malformed rows without losing the rest", func(t *testing.T) {
		content := exportHeader + "\n" +
			`https://i.ebayimg.com/images/g/eee/s-l225.jpg,https://www.ebay.de/itm/666,Gültige Zeile eins,"€10,00",1,2024-05-01` + "\n" +
			`broken"quote,https://www.ebay.de/itm/777,Kaputte Zeile,"€1,00",1,2024-05-02` + "\n" +
			`https://i.ebayimg.com/images/g/fff/s-l225.jpg,https://www.ebay.de/itm/888,Gültige Zeile zwei,"€20,00",1,2024-05-03` + "\n"

		records := ParseProducts([]byte(content), "mixed.csv")
		if len(records) != 2 {
			t.Fatalf("len(records) = %d, want 2 (malformed row skipped)", len(records))
		}
		if records[0].Title != "Gültige Zeile eins" {
			t.Errorf("records[0].Title = %q", records[0].Title)
		}
		if records[1].Title != "Gültige Zeile zwei" {
			t.Errorf("records[1].Title = %q", records[1].Title)
		}
	})

	t.Run("returns nil for unreadable header", func(t *testing.T) {
		if records := ParseProducts(nil, "empty.csv"); records != nil {
			t.Errorf("records = %v, want nil for empty content", records)
		}
	})

	t.Run("returns no records for header-only file", func(t *testing.T) {
		records := ParseProducts([]byte(exportHeader+"\n"), "headeronly.csv")
		if len(records) != 0 {
			t.Errorf("len(records) = %d, want 0", len(records))
		}
	})
}
