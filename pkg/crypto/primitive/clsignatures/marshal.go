/*
Copyright Hyperledger Community. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clsignatures

import (
	"encoding/json"
	"math/big"

	bls12381 "github.com/kilic/bls12-381"
	"github.com/pkg/errors"
)

// Wire format notes: arbitrary-precision integers travel as decimal strings,
// curve points as uncompressed byte strings (base64 under encoding/json),
// field elements as 32-byte big-endian strings.

func bigToDec(v *big.Int) string {
	if v == nil {
		return ""
	}

	return v.Text(10)
}

func decToBig(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("malformed integer %q", s)
	}

	return v, nil
}

func mapToDec(m map[string]*big.Int) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = bigToDec(v)
	}

	return out
}

func decToMap(m map[string]string) (map[string]*big.Int, error) {
	out := make(map[string]*big.Int, len(m))

	for k, s := range m {
		v, err := decToBig(s)
		if err != nil {
			return nil, err
		}

		out[k] = v
	}

	return out, nil
}

// MarshalJSON implements json.Marshaler.
func (n *Nonce) MarshalJSON() ([]byte, error) {
	return json.Marshal(bigToDec(n.value))
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nonce) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	v, err := decToBig(s)
	if err != nil {
		return errors.Wrap(err, "unmarshal nonce")
	}

	if v.Sign() < 0 {
		return errors.New("unmarshal nonce: negative value")
	}

	n.value = v

	return nil
}

// MarshalJSON implements json.Marshaler.
func (ms *MasterSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		MS string `json:"ms"`
	}{MS: bigToDec(ms.value)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (ms *MasterSecret) UnmarshalJSON(data []byte) error {
	raw := struct {
		MS string `json:"ms"`
	}{}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v, err := decToBig(raw.MS)
	if err != nil {
		return errors.Wrap(err, "unmarshal master secret")
	}

	ms.value = v

	return nil
}

type jsonPrimaryPublicKey struct {
	N string            `json:"n"`
	S string            `json:"s"`
	Z string            `json:"z"`
	R map[string]string `json:"r"`
}

// MarshalJSON implements json.Marshaler.
func (pk *CredentialPrimaryPublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPrimaryPublicKey{
		N: bigToDec(pk.N),
		S: bigToDec(pk.S),
		Z: bigToDec(pk.Z),
		R: mapToDec(pk.R),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (pk *CredentialPrimaryPublicKey) UnmarshalJSON(data []byte) error {
	var raw jsonPrimaryPublicKey
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error

	if pk.N, err = decToBig(raw.N); err != nil {
		return errors.Wrap(err, "unmarshal primary public key")
	}

	if pk.S, err = decToBig(raw.S); err != nil {
		return errors.Wrap(err, "unmarshal primary public key")
	}

	if pk.Z, err = decToBig(raw.Z); err != nil {
		return errors.Wrap(err, "unmarshal primary public key")
	}

	if pk.R, err = decToMap(raw.R); err != nil {
		return errors.Wrap(err, "unmarshal primary public key")
	}

	return nil
}

type jsonRevocationPublicKey struct {
	H       []byte `json:"h"`
	PKTilde []byte `json:"pk_tilde"`
}

// MarshalJSON implements json.Marshaler.
func (pk *CredentialRevocationPublicKey) MarshalJSON() ([]byte, error) {
	g1 := bls12381.NewG1()
	g2 := bls12381.NewG2()

	return json.Marshal(jsonRevocationPublicKey{
		H:       g1.ToUncompressed(pk.H),
		PKTilde: g2.ToUncompressed(pk.PKTilde),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (pk *CredentialRevocationPublicKey) UnmarshalJSON(data []byte) error {
	var raw jsonRevocationPublicKey
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	g1 := bls12381.NewG1()
	g2 := bls12381.NewG2()

	h, err := g1.FromUncompressed(raw.H)
	if err != nil {
		return errors.Wrap(err, "unmarshal revocation public key")
	}

	pkTilde, err := g2.FromUncompressed(raw.PKTilde)
	if err != nil {
		return errors.Wrap(err, "unmarshal revocation public key")
	}

	pk.H, pk.PKTilde = h, pkTilde

	return nil
}

type jsonCredentialPublicKey struct {
	Primary    *CredentialPrimaryPublicKey    `json:"p_key"`
	Revocation *CredentialRevocationPublicKey `json:"r_key,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (pk *CredentialPublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonCredentialPublicKey{Primary: pk.Primary, Revocation: pk.Revocation})
}

// UnmarshalJSON implements json.Unmarshaler.
func (pk *CredentialPublicKey) UnmarshalJSON(data []byte) error {
	var raw jsonCredentialPublicKey
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Primary == nil {
		return errors.New("unmarshal credential public key: missing primary key")
	}

	pk.Primary, pk.Revocation = raw.Primary, raw.Revocation

	return nil
}

type jsonCredentialPrivateKey struct {
	P     string `json:"p"`
	Q     string `json:"q"`
	Gamma []byte `json:"gamma,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (sk *CredentialPrivateKey) MarshalJSON() ([]byte, error) {
	raw := jsonCredentialPrivateKey{P: bigToDec(sk.P), Q: bigToDec(sk.Q)}

	if sk.Gamma != nil {
		raw.Gamma = frToRepr(sk.Gamma).ToBytes()
	}

	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (sk *CredentialPrivateKey) UnmarshalJSON(data []byte) error {
	var raw jsonCredentialPrivateKey
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error

	if sk.P, err = decToBig(raw.P); err != nil {
		return errors.Wrap(err, "unmarshal credential private key")
	}

	if sk.Q, err = decToBig(raw.Q); err != nil {
		return errors.Wrap(err, "unmarshal credential private key")
	}

	if raw.Gamma != nil {
		if len(raw.Gamma) != frCompressedSize {
			return errors.New("unmarshal credential private key: malformed gamma")
		}

		sk.Gamma = parseFr(raw.Gamma)
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (bs *BlindedCredentialSecrets) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		U string `json:"u"`
	}{U: bigToDec(bs.U)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (bs *BlindedCredentialSecrets) UnmarshalJSON(data []byte) error {
	raw := struct {
		U string `json:"u"`
	}{}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u, err := decToBig(raw.U)
	if err != nil {
		return errors.Wrap(err, "unmarshal blinded credential secrets")
	}

	bs.U = u

	return nil
}

type jsonCredentialSignature struct {
	A string `json:"a"`
	E string `json:"e"`
	V string `json:"v"`
}

// MarshalJSON implements json.Marshaler.
func (sig *CredentialSignature) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonCredentialSignature{
		A: bigToDec(sig.A),
		E: bigToDec(sig.E),
		V: bigToDec(sig.V),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (sig *CredentialSignature) UnmarshalJSON(data []byte) error {
	var raw jsonCredentialSignature
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error

	if sig.A, err = decToBig(raw.A); err != nil {
		return errors.Wrap(err, "unmarshal credential signature")
	}

	if sig.E, err = decToBig(raw.E); err != nil {
		return errors.Wrap(err, "unmarshal credential signature")
	}

	if sig.V, err = decToBig(raw.V); err != nil {
		return errors.Wrap(err, "unmarshal credential signature")
	}

	return nil
}

type jsonRevocationRegistry struct {
	Accum []byte `json:"accum"`
}

// MarshalJSON implements json.Marshaler.
func (reg *RevocationRegistry) MarshalJSON() ([]byte, error) {
	g1 := bls12381.NewG1()

	return json.Marshal(jsonRevocationRegistry{Accum: g1.ToUncompressed(reg.Accum)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (reg *RevocationRegistry) UnmarshalJSON(data []byte) error {
	var raw jsonRevocationRegistry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	g1 := bls12381.NewG1()

	accum, err := g1.FromUncompressed(raw.Accum)
	if err != nil {
		return errors.Wrap(err, "unmarshal revocation registry")
	}

	reg.Accum = accum

	return nil
}

type jsonWitness struct {
	W   []byte `json:"w"`
	Idx uint32 `json:"idx"`
}

// MarshalJSON implements json.Marshaler.
func (w *Witness) MarshalJSON() ([]byte, error) {
	g1 := bls12381.NewG1()

	return json.Marshal(jsonWitness{W: g1.ToUncompressed(w.W), Idx: w.Idx})
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *Witness) UnmarshalJSON(data []byte) error {
	var raw jsonWitness
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	g1 := bls12381.NewG1()

	point, err := g1.FromUncompressed(raw.W)
	if err != nil {
		return errors.Wrap(err, "unmarshal witness")
	}

	w.W, w.Idx = point, raw.Idx

	return nil
}

type jsonPrimaryEqualProof struct {
	APrime        string            `json:"a_prime"`
	EHat          string            `json:"e"`
	VHat          string            `json:"v"`
	MHat          map[string]string `json:"m"`
	RevealedAttrs map[string]string `json:"revealed_attrs"`
}

// MarshalJSON implements json.Marshaler.
func (p *PrimaryEqualProof) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPrimaryEqualProof{
		APrime:        bigToDec(p.APrime),
		EHat:          bigToDec(p.EHat),
		VHat:          bigToDec(p.VHat),
		MHat:          mapToDec(p.MHat),
		RevealedAttrs: mapToDec(p.RevealedAttrs),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PrimaryEqualProof) UnmarshalJSON(data []byte) error {
	var raw jsonPrimaryEqualProof
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error

	if p.APrime, err = decToBig(raw.APrime); err != nil {
		return errors.Wrap(err, "unmarshal equality proof")
	}

	if p.EHat, err = decToBig(raw.EHat); err != nil {
		return errors.Wrap(err, "unmarshal equality proof")
	}

	if p.VHat, err = decToBig(raw.VHat); err != nil {
		return errors.Wrap(err, "unmarshal equality proof")
	}

	if p.MHat, err = decToMap(raw.MHat); err != nil {
		return errors.Wrap(err, "unmarshal equality proof")
	}

	if p.RevealedAttrs, err = decToMap(raw.RevealedAttrs); err != nil {
		return errors.Wrap(err, "unmarshal equality proof")
	}

	return nil
}

type jsonPredicateGEProof struct {
	T         map[string]string `json:"t"`
	UHat      map[string]string `json:"u"`
	RHat      map[string]string `json:"r"`
	AlphaHat  string            `json:"alpha"`
	MHat      string            `json:"mj"`
	Predicate jsonPredicate     `json:"predicate"`
}

type jsonPredicate struct {
	AttrName string `json:"attr_name"`
	PType    string `json:"p_type"`
	Value    int64  `json:"value"`
}

// MarshalJSON implements json.Marshaler.
func (p *PrimaryPredicateGEProof) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPredicateGEProof{
		T:        mapToDec(p.T),
		UHat:     mapToDec(p.UHat),
		RHat:     mapToDec(p.RHat),
		AlphaHat: bigToDec(p.AlphaHat),
		MHat:     bigToDec(p.MHat),
		Predicate: jsonPredicate{
			AttrName: p.Predicate.AttrName,
			PType:    string(p.Predicate.PType),
			Value:    p.Predicate.Value,
		},
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PrimaryPredicateGEProof) UnmarshalJSON(data []byte) error {
	var raw jsonPredicateGEProof
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error

	if p.T, err = decToMap(raw.T); err != nil {
		return errors.Wrap(err, "unmarshal predicate proof")
	}

	if p.UHat, err = decToMap(raw.UHat); err != nil {
		return errors.Wrap(err, "unmarshal predicate proof")
	}

	if p.RHat, err = decToMap(raw.RHat); err != nil {
		return errors.Wrap(err, "unmarshal predicate proof")
	}

	if p.AlphaHat, err = decToBig(raw.AlphaHat); err != nil {
		return errors.Wrap(err, "unmarshal predicate proof")
	}

	if p.MHat, err = decToBig(raw.MHat); err != nil {
		return errors.Wrap(err, "unmarshal predicate proof")
	}

	p.Predicate = Predicate{
		AttrName: raw.Predicate.AttrName,
		PType:    PredicateType(raw.Predicate.PType),
		Value:    raw.Predicate.Value,
	}

	return nil
}

type jsonNonRevocationProof struct {
	E      []byte `json:"e"`
	IdxHat []byte `json:"idx_hat"`
	THat   []byte `json:"t_hat"`
	SHat   []byte `json:"s_hat"`
}

// MarshalJSON implements json.Marshaler.
func (p *NonRevocationProof) MarshalJSON() ([]byte, error) {
	g1 := bls12381.NewG1()

	return json.Marshal(jsonNonRevocationProof{
		E:      g1.ToUncompressed(p.E),
		IdxHat: frToRepr(p.IdxHat).ToBytes(),
		THat:   frToRepr(p.THat).ToBytes(),
		SHat:   frToRepr(p.SHat).ToBytes(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *NonRevocationProof) UnmarshalJSON(data []byte) error {
	var raw jsonNonRevocationProof
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw.IdxHat) != frCompressedSize || len(raw.THat) != frCompressedSize || len(raw.SHat) != frCompressedSize {
		return errors.New("unmarshal non-revocation proof: malformed field element")
	}

	g1 := bls12381.NewG1()

	e, err := g1.FromUncompressed(raw.E)
	if err != nil {
		return errors.Wrap(err, "unmarshal non-revocation proof")
	}

	p.E = e
	p.IdxHat = parseFr(raw.IdxHat)
	p.THat = parseFr(raw.THat)
	p.SHat = parseFr(raw.SHat)

	return nil
}

type jsonSubProof struct {
	Primary       *PrimaryProof       `json:"primary_proof"`
	NonRevocation *NonRevocationProof `json:"non_revoc_proof,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (sp *SubProof) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSubProof{Primary: sp.Primary, NonRevocation: sp.NonRevocation})
}

// UnmarshalJSON implements json.Unmarshaler.
func (sp *SubProof) UnmarshalJSON(data []byte) error {
	var raw jsonSubProof
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	sp.Primary, sp.NonRevocation = raw.Primary, raw.NonRevocation

	return nil
}

type jsonPrimaryProof struct {
	EqProof  *PrimaryEqualProof         `json:"eq_proof"`
	GEProofs []*PrimaryPredicateGEProof `json:"ge_proofs"`
}

// MarshalJSON implements json.Marshaler.
func (p *PrimaryProof) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPrimaryProof{EqProof: p.EqProof, GEProofs: p.GEProofs})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PrimaryProof) UnmarshalJSON(data []byte) error {
	var raw jsonPrimaryProof
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.EqProof, p.GEProofs = raw.EqProof, raw.GEProofs

	return nil
}

type jsonProof struct {
	SubProofs           []*SubProof `json:"proofs"`
	AggregatedChallenge string      `json:"aggregated_proof"`
}

// MarshalJSON implements json.Marshaler.
func (p *Proof) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonProof{
		SubProofs:           p.SubProofs,
		AggregatedChallenge: bigToDec(p.AggregatedChallenge),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var raw jsonProof
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	challenge, err := decToBig(raw.AggregatedChallenge)
	if err != nil {
		return errors.Wrap(err, "unmarshal proof")
	}

	p.SubProofs, p.AggregatedChallenge = raw.SubProofs, challenge

	return nil
}
