package events

// MonthNames lists the Spanish month names in calendar order.
var MonthNames = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish name of month m (1..12), or NoMonth.
func MonthName(m int) string {
	if m < 1 || m > len(MonthNames) {
		return NoMonth
	}
	return MonthNames[m-1]
}

// MonthNumber is the inverse of MonthName; it returns 0 for unknown names.
func MonthNumber(name string) int {
	for i, n := range MonthNames {
		if n == name {
			return i + 1
		}
	}
	return 0
}
