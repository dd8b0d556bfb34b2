package utils

import "errors"

type PermError string

func (e PermError) Error() string {
	return string(e)
}

func (e PermError) IsPermanent() bool {
	return true
}

// IsPermanent reports whether err, or anything it wraps, says it should not be retried.
func IsPermanent(err error) bool {
	var p interface{ IsPermanent() bool }
	return errors.As(err, &p) && p.IsPermanent()
}

type permanent struct {
	err error
}

func (e permanent) Error() string {
	return e.err.Error()
}

func (e permanent) Unwrap() error {
	return e.err
}

func (e permanent) IsPermanent() bool {
	return true
}

// MarkPermanent wraps err so IsPermanent reports true for it. nil stays nil.
func MarkPermanent(err error) error {
	if err == nil {
		return nil
	}
	return permanent{err: err}
}
