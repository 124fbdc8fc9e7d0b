package journal

// LetterName returns the spreadsheet-style name of the column at ordinal:
// 0 is "A", 25 is "Z", 26 is "AA", 27 is "AB" and so on.
func LetterName(ordinal int) string {
	if ordinal < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n := ordinal + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}
