// Package addrscript classifies transaction output scripts against the
// standard templates and encodes the resulting addresses. Classification is
// total: unrecognized or malformed scripts yield no addresses, never an
// error — script decoding has no failure mode observable to callers.
package addrscript

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"

	"github.com/speknet/btcaddrscan/chainparams"
)

// Extract returns the addresses a script pays to, in pattern-enumeration
// order (a bare multisig script yields one address per contained pubkey).
// An unrecognized script yields nil.
func Extract(script []byte, params *chainparams.Params) []string {
	if addr := matchP2PKH(script, params); addr != "" {
		return []string{addr}
	}
	if addr := matchP2SH(script, params); addr != "" {
		return []string{addr}
	}
	if addr := matchP2PK(script, params); addr != "" {
		return []string{addr}
	}
	if addr := matchP2WPKH(script, params); addr != "" {
		return []string{addr}
	}
	if addr := matchP2WSH(script, params); addr != "" {
		return []string{addr}
	}
	if addr := matchP2TR(script, params); addr != "" {
		return []string{addr}
	}
	if addrs := matchBareMultisig(script, params); len(addrs) > 0 {
		return addrs
	}
	return nil
}

// matchP2PKH matches OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
func matchP2PKH(script []byte, params *chainparams.Params) string {
	if len(script) != 25 ||
		script[0] != txscript.OP_DUP ||
		script[1] != txscript.OP_HASH160 ||
		script[2] != txscript.OP_DATA_20 ||
		script[23] != txscript.OP_EQUALVERIFY ||
		script[24] != txscript.OP_CHECKSIG {
		return ""
	}
	return pubKeyHashAddress(script[3:23], params)
}

// matchP2SH matches OP_HASH160 <20 bytes> OP_EQUAL.
func matchP2SH(script []byte, params *chainparams.Params) string {
	if len(script) != 23 ||
		script[0] != txscript.OP_HASH160 ||
		script[1] != txscript.OP_DATA_20 ||
		script[22] != txscript.OP_EQUAL {
		return ""
	}
	addr, err := btcutil.NewAddressScriptHashFromHash(script[2:22], params.Params)
	if err != nil {
		return ""
	}
	return addr.EncodeAddress()
}

// matchP2PK matches <33|65 byte pubkey> OP_CHECKSIG; the address is the
// P2PKH address of HASH160(pubkey).
func matchP2PK(script []byte, params *chainparams.Params) string {
	var pubKey []byte
	switch {
	case len(script) == 35 && script[0] == txscript.OP_DATA_33:
		pubKey = script[1:34]
	case len(script) == 67 && script[0] == txscript.OP_DATA_65:
		pubKey = script[1:66]
	default:
		return ""
	}
	if script[len(script)-1] != txscript.OP_CHECKSIG {
		return ""
	}
	return pubKeyHashAddress(btcutil.Hash160(pubKey), params)
}

// matchP2WPKH matches OP_0 <20 bytes>.
func matchP2WPKH(script []byte, params *chainparams.Params) string {
	if len(script) != 22 ||
		script[0] != txscript.OP_0 ||
		script[1] != txscript.OP_DATA_20 {
		return ""
	}
	addr, err := btcutil.NewAddressWitnessPubKeyHash(script[2:22], params.Params)
	if err != nil {
		return ""
	}
	return addr.EncodeAddress()
}

// matchP2WSH matches OP_0 <32 bytes>.
func matchP2WSH(script []byte, params *chainparams.Params) string {
	if len(script) != 34 ||
		script[0] != txscript.OP_0 ||
		script[1] != txscript.OP_DATA_32 {
		return ""
	}
	addr, err := btcutil.NewAddressWitnessScriptHash(script[2:34], params.Params)
	if err != nil {
		return ""
	}
	return addr.EncodeAddress()
}

// matchP2TR matches OP_1 <32 bytes>.
func matchP2TR(script []byte, params *chainparams.Params) string {
	if len(script) != 34 ||
		script[0] != txscript.OP_1 ||
		script[1] != txscript.OP_DATA_32 {
		return ""
	}
	addr, err := btcutil.NewAddressTaproot(script[2:34], params.Params)
	if err != nil {
		return ""
	}
	return addr.EncodeAddress()
}

// matchBareMultisig matches OP_m <pubkey>... OP_n OP_CHECKMULTISIG, yielding
// one P2PKH-style address per contained pubkey. A push whose declared
// length runs past the end of the script demotes the whole pattern to
// unrecognized.
func matchBareMultisig(script []byte, params *chainparams.Params) []string {
	if len(script) < 3 {
		return nil
	}
	m, ok := smallInt(script[0])
	if !ok {
		return nil
	}
	_ = m

	idx := 1
	var pubKeys [][]byte
	for idx < len(script) {
		pushLen := script[idx]
		if pushLen != 33 && pushLen != 65 {
			break
		}
		end := idx + 1 + int(pushLen)
		if end > len(script) {
			log.Debugf("bare multisig candidate demoted to unrecognized: "+
				"push of %d bytes at offset %d runs past script end (%d bytes)",
				pushLen, idx, len(script))
			return nil
		}
		pubKeys = append(pubKeys, script[idx+1:end])
		idx = end
	}

	if idx+2 != len(script) {
		return nil
	}
	n, ok := smallInt(script[idx])
	if !ok || int(n) != len(pubKeys) {
		return nil
	}
	if script[idx+1] != txscript.OP_CHECKMULTISIG {
		return nil
	}

	addrs := make([]string, 0, len(pubKeys))
	for _, pk := range pubKeys {
		addrs = append(addrs, pubKeyHashAddress(btcutil.Hash160(pk), params))
	}
	return addrs
}

// smallInt decodes OP_0 and OP_1..OP_16 to their integer value.
func smallInt(op byte) (byte, bool) {
	if op == txscript.OP_0 {
		return 0, true
	}
	if op >= txscript.OP_1 && op <= txscript.OP_16 {
		return op - txscript.OP_1 + 1, true
	}
	return 0, false
}

func pubKeyHashAddress(hash160 []byte, params *chainparams.Params) string {
	addr, err := btcutil.NewAddressPubKeyHash(hash160, params.Params)
	if err != nil {
		return ""
	}
	return addr.EncodeAddress()
}
