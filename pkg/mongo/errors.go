package mongo

import "errors"

var (
	ErrEmptyConnectionURL     = errors.New("empty mongo connection url, set MONGODB_URL")
	ErrEmptyDatabase          = errors.New("empty mongo database name")
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
)
