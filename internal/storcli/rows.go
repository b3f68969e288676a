package storcli

import (
	"regexp"
	"strconv"
	"strings"
)

// Table rows are whitespace-delimited with unstable column widths, so
// each decoder anchors on the fixed-shape fields (identity keys, sizes,
// the NNC temperature token) and re-merges the multi-token fields
// between them. Lines that do not fit the grammar (headers, dash
// separators, legend lines) decode to no match.

var (
	vdIDPattern   = regexp.MustCompile(`^(\d+)/(\d+)$`)
	pdIDPattern   = regexp.MustCompile(`^(\d*):(\d+)$`)
	numberPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
	sectorPattern = regexp.MustCompile(`^\d+(\.\d+)?(B|KB)$`)
	tempPattern   = regexp.MustCompile(`^\d+C$`)
)

var sizeUnits = map[string]bool{
	"B": true, "KB": true, "MB": true, "GB": true, "TB": true, "PB": true,
}

// sizeAt re-merges a "931.512 GB" style size starting at fields[i].
// The unit is matched literally so a greedy trailing field cannot
// consume it.
func sizeAt(fields []string, i int) (string, bool) {
	if i+1 >= len(fields) {
		return "", false
	}
	if !numberPattern.MatchString(fields[i]) || !sizeUnits[fields[i+1]] {
		return "", false
	}
	return fields[i] + " " + fields[i+1], true
}

// decodeVDRow decodes one VD LIST line:
//
//	DG/VD TYPE State Access Consist Cache Cac sCC Size Name
func decodeVDRow(line string) (VirtualDrive, bool) {
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return VirtualDrive{}, false
	}

	m := vdIDPattern.FindStringSubmatch(fields[0])
	if m == nil {
		return VirtualDrive{}, false
	}
	group, _ := strconv.Atoi(m[1])
	index, _ := strconv.Atoi(m[2])

	size, ok := sizeAt(fields, 8)
	if !ok {
		return VirtualDrive{}, false
	}

	return VirtualDrive{
		Group:     group,
		Index:     index,
		Level:     fields[1],
		State:     fields[2],
		Access:    fields[3],
		Consist:   fields[4],
		Cache:     fields[5],
		Size:      size,
		SizeBytes: ParseSizeToBytes(size),
		Name:      strings.Join(fields[10:], " "),
	}, true
}

// decodePDRow decodes one PD LIST line:
//
//	EID:Slt DID State DG Size Intf Med SED PI SeSz Model Sp Type
//
// The enclosure id may be blank for direct-attached drives, the sector
// size may be one token ("512B") or two ("4 KB"), and the model is free
// text bounded by the trailing Sp and Type columns.
func decodePDRow(line string) (PhysicalDrive, bool) {
	fields := strings.Fields(line)
	if len(fields) < 11 {
		return PhysicalDrive{}, false
	}

	m := pdIDPattern.FindStringSubmatch(fields[0])
	if m == nil {
		return PhysicalDrive{}, false
	}
	slot, _ := strconv.Atoi(m[2])

	devID, err := strconv.Atoi(fields[1])
	if err != nil {
		return PhysicalDrive{}, false
	}

	size, ok := sizeAt(fields, 4)
	if !ok {
		return PhysicalDrive{}, false
	}

	// SeSz is "512B" as one token or "4 KB" as two
	i := 10
	sectorSize := fields[i]
	if !sectorPattern.MatchString(sectorSize) {
		merged, ok := sizeAt(fields, i)
		if !ok {
			return PhysicalDrive{}, false
		}
		sectorSize = merged
		i++
	}
	i++

	// what remains is Model (free text), Sp, Type
	if len(fields) < i+3 {
		return PhysicalDrive{}, false
	}

	return PhysicalDrive{
		Enclosure:  m[1],
		Slot:       slot,
		DeviceID:   devID,
		State:      fields[2],
		DriveGroup: fields[3],
		Size:       size,
		SizeBytes:  ParseSizeToBytes(size),
		Interface:  fields[6],
		Medium:     fields[7],
		SectorSize: sectorSize,
		Model:      strings.Join(fields[i:len(fields)-2], " "),
		Spun:       fields[len(fields)-2],
	}, true
}

// decodeBBURow decodes one BBU_Info line:
//
//	Model State RetentionTime Temp Mode MfgDate Next Learn
//
// RetentionTime is multi-token ("48 hours+", "0 hour(s)") and runs up
// to the temperature token.
func decodeBBURow(line string) (BackupUnit, bool) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return BackupUnit{}, false
	}

	tempIdx := -1
	for i := 2; i < len(fields); i++ {
		if tempPattern.MatchString(fields[i]) {
			tempIdx = i
			break
		}
	}
	if tempIdx < 3 || tempIdx+2 >= len(fields) {
		return BackupUnit{}, false
	}

	return BackupUnit{
		Kind:          BackupUnitBattery,
		Model:         fields[0],
		State:         fields[1],
		RetentionTime: strings.Join(fields[2:tempIdx], " "),
		Temp:          fields[tempIdx],
		Mode:          fields[tempIdx+1],
		MfgDate:       fields[tempIdx+2],
		NextLearn:     strings.Join(fields[tempIdx+3:], " "),
	}, true
}

// decodeCachevaultRow decodes one Cachevault_Info line:
//
//	Model State Temp Mode MfgDate
func decodeCachevaultRow(line string) (BackupUnit, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return BackupUnit{}, false
	}
	if !tempPattern.MatchString(fields[2]) {
		return BackupUnit{}, false
	}

	return BackupUnit{
		Kind:    BackupUnitCachevault,
		Model:   fields[0],
		State:   fields[1],
		Temp:    fields[2],
		Mode:    fields[3],
		MfgDate: fields[4],
	}, true
}

// ParseSizeToBytes converts human-readable size strings to bytes
func ParseSizeToBytes(sizeStr string) int64 {
	if sizeStr == "" {
		return 0
	}

	sizeStr = strings.ToUpper(strings.ReplaceAll(sizeStr, " ", ""))

	var numStr strings.Builder
	var unit string
	for i, r := range sizeStr {
		if r >= '0' && r <= '9' || r == '.' {
			numStr.WriteRune(r)
		} else {
			unit = sizeStr[i:]
			break
		}
	}

	value, err := strconv.ParseFloat(numStr.String(), 64)
	if err != nil {
		return 0
	}

	switch unit {
	case "B", "":
		return int64(value)
	case "KB", "K":
		return int64(value * 1024)
	case "MB", "M":
		return int64(value * 1024 * 1024)
	case "GB", "G":
		return int64(value * 1024 * 1024 * 1024)
	case "TB", "T":
		return int64(value * 1024 * 1024 * 1024 * 1024)
	case "PB", "P":
		return int64(value * 1024 * 1024 * 1024 * 1024 * 1024)
	default:
		return int64(value)
	}
}
