package service

import "golang.org/x/sys/unix"

// freeDiskGB reports whole gigabytes available to unprivileged writes on the
// filesystem holding path.
func freeDiskGB(path string) (int64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	free := int64(stat.Bavail) * stat.Bsize
	return free / (1 << 30), nil
}
