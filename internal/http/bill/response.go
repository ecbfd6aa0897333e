package bill

import (
	"github.com/MrJamesThe3rd/billed/internal/bill"
)

func toResponseList(bills []*bill.Bill) []bill.Bill {
	out := make([]bill.Bill, 0, len(bills))
	for _, b := range bills {
		out = append(out, *b)
	}

	return out
}
