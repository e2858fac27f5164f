// internal/dna/rc.go
package dna

// complement covers IUPAC codes so ambiguous bases in assembled fragments survive a strand flip.
var complement = [256]byte{
	'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A',
	'R': 'Y', 'Y': 'R', // A/G  <->  C/T
	'S': 'S', 'W': 'W', // GC   <->  GC   ; AT <-> AT
	'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B',
	'D': 'H', 'H': 'D',
	'N': 'N',
}

// RevComp returns the reverse complement of seq. Unknown bytes become 'N'.
func RevComp(seq string) string {
	n := len(seq)
	if n == 0 {
		return ""
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		if c := complement[seq[n-1-i]]; c != 0 {
			out[i] = c
		} else {
			out[i] = 'N'
		}
	}
	return string(out)
}

// Valid reports whether every byte of seq is an upper-case IUPAC nucleotide.
func Valid(seq string) bool {
	for i := 0; i < len(seq); i++ {
		if complement[seq[i]] == 0 {
			return false
		}
	}
	return true
}
