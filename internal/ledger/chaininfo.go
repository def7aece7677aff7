package ledger

import (
	"github.com/golang/protobuf/proto"
	cb "github.com/hyperledger/fabric-protos-go/common"
	"github.com/pkg/errors"
)

// DecodeChainInfo decodes a serialized common.BlockchainInfo as returned by qscc GetChainInfo.
func DecodeChainInfo(raw []byte) (*ChainInfo, error) {
	info := &cb.BlockchainInfo{}
	if err := proto.Unmarshal(raw, info); err != nil {
		return nil, errors.Wrap(err, "unmarshal blockchain info")
	}

	return &ChainInfo{
		Height:            info.GetHeight(),
		CurrentBlockHash:  info.GetCurrentBlockHash(),
		PreviousBlockHash: info.GetPreviousBlockHash(),
	}, nil
}
