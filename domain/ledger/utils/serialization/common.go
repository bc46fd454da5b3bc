package serialization

import (
	"io"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/util/binaryserializer"
	"github.com/pkg/errors"
)

// errNoEncodingForType signifies that there's no encoding for the given type.
var errNoEncodingForType = errors.New("there's no encoding for this type")

// WriteElement writes the little endian representation of element to w.
// Byte slices and strings are length prefixed. A nil hash or chain id is
// written as a single zero byte while a present one is prefixed by 0x01, so
// that optional fields can never collide.
func WriteElement(w io.Writer, element interface{}) error {
	// Attempt to write the element based on the concrete type via fast
	// type assertions first.
	switch e := element.(type) {
	case uint32:
		return binaryserializer.PutUint32(w, e)

	case int64:
		return binaryserializer.PutUint64(w, uint64(e))

	case uint64:
		return binaryserializer.PutUint64(w, e)

	case uint8:
		return binaryserializer.PutUint8(w, e)

	case bool:
		if e {
			return binaryserializer.PutUint8(w, 0x01)
		}
		return binaryserializer.PutUint8(w, 0x00)

	case []byte:
		return binaryserializer.PutVarBytes(w, e)

	case string:
		return binaryserializer.PutVarBytes(w, []byte(e))

	case *externalapi.DomainHash:
		if e == nil {
			return binaryserializer.PutUint8(w, 0x00)
		}
		err := binaryserializer.PutUint8(w, 0x01)
		if err != nil {
			return err
		}
		_, err = w.Write(e.ByteSlice())
		return errors.WithStack(err)

	case *externalapi.DomainChainID:
		if e == nil {
			return binaryserializer.PutUint8(w, 0x00)
		}
		err := binaryserializer.PutUint8(w, 0x01)
		if err != nil {
			return err
		}
		_, err = w.Write(e[:])
		return errors.WithStack(err)
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to write type %T", element)
}

// WriteElements writes multiple items to w. It is equivalent to multiple
// calls to writeElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}
