package consensus

import "errors"

var errNilCertificate = errors.New("certificate must not be nil")
