package mpp

import (
	"bytes"

	"github.com/lightninglabs/mppcoord/htlcswitch"
	"github.com/lightninglabs/mppcoord/lnwire"
	"github.com/lightningnetwork/lnd/tlv"
)

// TLV types for the records of the final-hop payload. All four are even,
// so a decoder that does not know one of them rejects the stream rather
// than skipping the record.
const (
	typeAmount        tlv.Type = 2
	typeTotalAmount   tlv.Type = 4
	typeExpiry        tlv.Type = 6
	typePaymentSecret tlv.Type = 8
)

// EncodeFinalPayload serializes a FinalPayload into the TLV record carried
// by the last hop's onion.
func EncodeFinalPayload(payload htlcswitch.FinalPayload) ([]byte, error) {
	amount := uint64(payload.Amount)
	totalAmount := uint64(payload.TotalAmount)
	expiry := payload.Expiry
	secret := payload.PaymentSecret

	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeAmount, &amount),
		tlv.MakePrimitiveRecord(typeTotalAmount, &totalAmount),
		tlv.MakePrimitiveRecord(typeExpiry, &expiry),
		tlv.MakePrimitiveRecord(typePaymentSecret, &secret),
	)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	if err := stream.Encode(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// DecodeFinalPayload parses the bytes produced by EncodeFinalPayload back
// into a FinalPayload.
func DecodeFinalPayload(data []byte) (htlcswitch.FinalPayload, error) {
	var (
		amount      uint64
		totalAmount uint64
		payload     htlcswitch.FinalPayload
	)

	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeAmount, &amount),
		tlv.MakePrimitiveRecord(typeTotalAmount, &totalAmount),
		tlv.MakePrimitiveRecord(typeExpiry, &payload.Expiry),
		tlv.MakePrimitiveRecord(typePaymentSecret, &payload.PaymentSecret),
	)
	if err != nil {
		return htlcswitch.FinalPayload{}, err
	}

	if err := stream.Decode(bytes.NewReader(data)); err != nil {
		return htlcswitch.FinalPayload{}, err
	}

	payload.Amount = lnwire.MilliSatoshi(amount)
	payload.TotalAmount = lnwire.MilliSatoshi(totalAmount)
	return payload, nil
}
