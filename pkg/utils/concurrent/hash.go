package concurrent

import "hash/fnv"

// HashString 默认的字符串哈希函数 (FNV-1a)
func HashString(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}
