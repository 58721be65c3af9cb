package idgen

import (
	"log"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init membuat snowflake node; aman dipanggil berulang kali
func Init() {
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(1)
		if err != nil {
			log.Fatalf("Failed to init Snowflake: %v", err)
		}
	})
}

func GenerateID() int64 {
	Init()
	return node.Generate().Int64()
}
