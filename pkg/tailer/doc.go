/*
Package tailer follows a growing log file and delivers newly appended
lines in file order.

A Tailer starts at the current end of file — tail -f semantics — and
polls file metadata on a fixed cadence to detect growth. It additionally
watches the file's parent directory with fsnotify so that a rotator which
renames the old file and creates a new one under the same path is picked
up promptly rather than waiting for the next poll tick; this is
supplementary to polling, never a replacement for it, since fsnotify
delivery is not guaranteed on every platform. Any filesystem error enters
a fixed-delay retry loop; the tailer only stops when told to.
*/
package tailer
