package handler

import "auditgate/pkg/domain"

func domainKey(name, location string) domain.BusinessKey {
	return domain.NormalizeBusinessKey(name, location)
}
