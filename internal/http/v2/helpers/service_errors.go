package helpers

import (
	"errors"

	httperrors "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/errors"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
)

var kinds = []struct {
	kind error
	app  *httperrors.AppError
}{
	{common.ErrInvalidCredentials, httperrors.ErrInvalidCredentials},
	{common.ErrInvalidEmailFormat, httperrors.ErrInvalidEmailFormat},
	{common.ErrEmailNotRegistered, httperrors.ErrEmailNotRegistered},
	{common.ErrEmailDeliveryFailure, httperrors.ErrEmailDeliveryFailure},
	{common.ErrInvalidOrExpiredCode, httperrors.ErrInvalidOrExpiredCode},
	{common.ErrFlowStateExpired, httperrors.ErrFlowStateExpired},
	{common.ErrSecretMismatch, httperrors.ErrSecretMismatch},
}

// ServiceError traduce un error de service a *AppError. Los errores sin
// paso propio (store, internos) vuelven a current.
func ServiceError(err error, current string) *httperrors.AppError {
	var appErr *httperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			return k.app
		}
	}
	if errors.Is(err, common.ErrStoreUnavailable) {
		return httperrors.ErrStoreUnavailable.WithNext(current)
	}
	return httperrors.ErrInternalServerError.WithCause(err).WithNext(current)
}
