package workorder

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultServiceIDPrefix = "SRV"

	queuedIDSuffix = "QUE"
	leadIDLength   = 3
	idTimeLayout   = "20060102150405"
)

type serviceIDRegistry interface {
	HasWorkOrder(id string) bool
	HasReceipt(serviceID string) bool
}

// ServiceID formats {prefix}_{YYYYMMDDHHMMSS}_{LEAD}, LEAD being the first three
// characters of the lead technician id in upper case, or QUE without a technician.
func ServiceID(prefix string, at time.Time, technicianIDs []string) string {
	suffix := queuedIDSuffix
	if len(technicianIDs) > 0 && technicianIDs[0] != "" {
		lead := technicianIDs[0]
		if len(lead) > leadIDLength {
			lead = lead[:leadIDLength]
		}
		suffix = strings.ToUpper(lead)
	}
	return prefix + "_" + at.Format(idTimeLayout) + "_" + suffix
}

// nextServiceID appends -2, -3 ... when the token is already used by a live
// order or a receipt.
func nextServiceID(prefix string, at time.Time, technicianIDs []string, registry serviceIDRegistry) string {
	base := ServiceID(prefix, at, technicianIDs)
	id := base
	for n := 2; registry.HasWorkOrder(id) || registry.HasReceipt(id); n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}
