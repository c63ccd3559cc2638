package calendar

// baseHolidays is the statutory public-holiday table for the jurisdiction the
// campaign teams operate in, covering the supported planning horizon.
var baseHolidays = []string{
	// 2024
	"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
	"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08",
	"2024-02-23",
	"2024-03-08",
	"2024-05-01",
	"2024-05-09",
	"2024-06-12",
	"2024-11-04",
	// 2025
	"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04",
	"2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08",
	"2025-02-23",
	"2025-03-08",
	"2025-05-01",
	"2025-05-09",
	"2025-06-12",
	"2025-11-04",
	// 2026
	"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04",
	"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08",
	"2026-02-23",
	"2026-03-08",
	"2026-05-01",
	"2026-05-09",
	"2026-06-12",
	"2026-11-04",
}

// orgHolidays are organization-wide extra days off announced outside the
// statutory table.
var orgHolidays = []string{
	"2024-11-04",
	"2025-03-01",
	"2025-03-02",
	"2025-03-08",
	"2025-03-09",
}
