package etax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddressFull(t *testing.T) {
	addr := ParseAddress("61/2 ม.2 ต.บางรัก อ.เมือง จ.นนทบุรี 11000")

	assert.Equal(t, "61/2", addr.BuildingNumber)
	assert.Equal(t, "บางรัก", addr.Subdistrict)
	assert.Equal(t, "เมือง", addr.District)
	assert.Equal(t, "นนทบุรี", addr.Province)
	assert.Equal(t, "11000", addr.Postcode)
	assert.Equal(t, "61/2 ม.2 ต.บางรัก อ.เมือง จ.นนทบุรี 11000", addr.LineOne)
}

func TestParseAddressBangkokMarkers(t *testing.T) {
	addr := ParseAddress("99 แขวงสีลม เขตบางรัก กรุงเทพมหานคร 10500")

	assert.Equal(t, "99", addr.BuildingNumber)
	assert.Equal(t, "สีลม", addr.Subdistrict)
	assert.Equal(t, "บางรัก", addr.District)
	// No province marker; defaults to Bangkok.
	assert.Equal(t, "กรุงเทพมหานคร", addr.Province)
	assert.Equal(t, "10500", addr.Postcode)
}

func TestParseAddressNoLeadingNumber(t *testing.T) {
	addr := ParseAddress("อาคารเอ ชั้น 5")
	assert.Equal(t, "1", addr.BuildingNumber)
	assert.Equal(t, "", addr.Postcode)
}

func TestParseAddressEmpty(t *testing.T) {
	addr := ParseAddress("")
	assert.Equal(t, "กรุงเทพมหานคร", addr.Province)
	assert.Equal(t, "", addr.BuildingNumber)
	assert.Equal(t, "", addr.LineOne)
}
