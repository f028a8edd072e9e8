package printer

import (
	"context"
	"os"
)

// Device writes raw jobs straight to a printer character device.
type Device struct {
	Path string
}

func (d *Device) Print(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(d.Path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return deviceError(job, "open "+d.Path, err)
	}
	if _, err := f.Write(job.Data); err != nil {
		_ = f.Close()
		return deviceError(job, "write "+d.Path, err)
	}
	if err := f.Close(); err != nil {
		return deviceError(job, "close "+d.Path, err)
	}
	return nil
}

func (d *Device) Describe() string {
	return "device:" + d.Path
}
