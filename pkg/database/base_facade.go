// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package database

import (
	goerrors "errors"

	airmerrors "github.com/amd-enterprise-ai/airm/pkg/errors"
	"gorm.io/gorm"
)

// BaseFacade is the base structure for all facades, providing DB access.
type BaseFacade struct {
	db *gorm.DB
}

func (f *BaseFacade) getDB() *gorm.DB {
	return f.db
}

// checkErr normalizes gorm errors: not-found can be tolerated, everything
// else is wrapped as a database error with the call stack attached.
func checkErr(err error, allowNotExist bool) error {
	if err == nil {
		return nil
	}
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		if allowNotExist {
			return nil
		}
		return err
	}
	return airmerrors.NewError().WithError(err).WithCode(airmerrors.CodeDatabaseError)
}

// IsNotFound reports whether err is the record-not-found error.
func IsNotFound(err error) bool {
	return goerrors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	if goerrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var cErr *airmerrors.Error
	if goerrors.As(err, &cErr) && cErr.InnerError != nil {
		return goerrors.Is(cErr.InnerError, gorm.ErrDuplicatedKey)
	}
	return false
}
