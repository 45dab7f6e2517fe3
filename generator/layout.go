package generator

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/warp/retail-datagen/calendar"
)

// filePrefix is the file name stem of each partitioned table.
var filePrefix = map[Table]string{
	TableSales:     "sales",
	TableTraffic:   "traffic",
	TableInventory: "inventory",
}

// tableFile is the file name stem of each single-file table.
var tableFile = map[Table]string{
	TablePromotions:  "promotions",
	TableStoreEvents: "store_events",
	TableMetadata:    "generation_metadata",
}

// PartitionDir is <root>/<table>/year=YYYY/month=MM/day=DD.
func PartitionDir(root string, table Table, d calendar.Date) string {
	return filepath.Join(root, string(table),
		fmt.Sprintf("year=%04d", d.Year()),
		fmt.Sprintf("month=%02d", int(d.Month())),
		fmt.Sprintf("day=%02d", d.Day()),
	)
}

// PartitionFile is the path of a table's file for day d, e.g.
// sales/year=2024/month=01/day=07/sales_2024-01-07.parquet.
func PartitionFile(root string, table Table, d calendar.Date, ext string) string {
	prefix, ok := filePrefix[table]
	if !ok {
		prefix = string(table)
	}
	return filepath.Join(PartitionDir(root, table, d), prefix+"_"+d.String()+ext)
}

// TableFile is the path of a non-partitioned table, e.g.
// metadata/generation_metadata.parquet.
func TableFile(root string, table Table, ext string) string {
	name, ok := tableFile[table]
	if !ok {
		name = string(table)
	}
	return filepath.Join(root, string(table), name+ext)
}

// ParsePartition extracts the date encoded by the year=/month=/day=
// components of a partition path.
func ParsePartition(path string) (calendar.Date, error) {
	var year, month, day int
	var found int
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return calendar.Date{}, fmt.Errorf("partition %s: bad %s component %q", path, key, value)
		}
		switch key {
		case "year":
			year, found = n, found|1
		case "month":
			month, found = n, found|2
		case "day":
			day, found = n, found|4
		}
	}
	if found != 7 {
		return calendar.Date{}, fmt.Errorf("partition %s: missing year/month/day components", path)
	}
	return calendar.ParseDate(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}
