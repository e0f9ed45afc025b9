package idutils

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

var sfNode *snowflake.Node

// GenerateSnowflakeId returns a new snowflake ID for an audit record.
func GenerateSnowflakeId() (int64, error) {
	if sfNode == nil {
		node, err := snowflake.NewNode(1)
		if err != nil {
			return 0, errors.Wrap(err, "failed to create the ID generator")
		}

		sfNode = node
	}

	return sfNode.Generate().Int64(), nil
}
