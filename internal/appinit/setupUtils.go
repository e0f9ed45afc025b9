package appinit

import (
	"github.com/creativeplatform/tokengate/internal/global"
	"github.com/creativeplatform/tokengate/internal/models/sqlmodel"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InstantiateRPCClients creates an RPC client for each configured chain and
// stores them in `global.RPCClientInstances`.
func InstantiateRPCClients(chains map[int]string) error {
	if len(chains) == 0 {
		return errors.New("the config must list at least one chain RPC endpoint")
	}

	global.RPCClientInstances = make(map[int]*ethclient.Client)
	for chainID, endpoint := range chains {
		client, err := ethclient.Dial(endpoint)
		if err != nil {
			return errors.Wrapf(err, "failed to create the RPC client for chain %v", chainID)
		}

		global.RPCClientInstances[chainID] = client
		log.Infof("Created the RPC client for chain %v", chainID)
	}

	return nil
}

// SetupLocalDB connects to the local MySQL database, migrates the audit and
// revocation tables and stores the handle in `global.DBInstance`.
func SetupLocalDB(dsn string) error {
	localDB, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to connect to the local database")
	}

	if err := localDB.AutoMigrate(&sqlmodel.GateAuditEntry{}, &sqlmodel.Revocation{}); err != nil {
		return errors.Wrap(err, "failed to migrate the local database")
	}

	global.DBInstance = localDB

	return nil
}
