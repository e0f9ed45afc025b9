package global

import (
	"github.com/ethereum/go-ethereum/ethclient"
	"gorm.io/gorm"
)

var RPCClientInstances map[int]*ethclient.Client // A lookup takes the chain ID.
var DBInstance *gorm.DB                          // The local database for audit entries and revocations. Nil when not configured.
